// Package planner decides what happens to each discovered file: skip it,
// copy it verbatim, compare it against an output left by an earlier run, or
// transcode it. The decision is pure; callers gather the facts (probed
// codec, skip list, which destination files exist) and act on the [Plan].
package planner
