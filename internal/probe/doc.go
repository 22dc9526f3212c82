// Package probe asks ffprobe for the two facts the orchestrator needs about a
// media file: the codec of its first video stream and its container duration.
//
// Probes fail soft. On any failure they return a sentinel ("" or 0) and
// report the cause to a [Recorder], so callers can keep walking while the
// problem still shows up in the run result.
package probe
