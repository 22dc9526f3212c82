// Package pipeline orchestrates one run: discover files under the input
// directory, decide per file whether to skip, copy, compare or transcode,
// drive the encoder and the comparison policy, and record every outcome in
// a result.Run.
//
// Files are processed sequentially. Each file that enters the transcode
// path gets its own result scope; faults inside it are recorded there and
// the walk continues with the next file.
package pipeline
