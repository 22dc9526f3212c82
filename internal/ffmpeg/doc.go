// Package ffmpeg assembles encoder arguments from presets and stream options
// and runs ffmpeg for one file.
//
// The command shape is fixed: ffmpeg -i <src> <args...> <dst>. Encoder
// output is forwarded verbatim to the configured sinks; a bounded tail of
// stderr is kept so failures can be diagnosed in the run result.
package ffmpeg
