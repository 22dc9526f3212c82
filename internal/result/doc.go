// Package result accumulates what happened during a run.
//
// A [Run] owns one [FileResult] per file that entered the transcode path plus
// run-scoped messages. [Run.Begin] opens a file scope and returns a [Scope]
// handle; while it is open, messages sent to the Run land on that file.
// [Scope.Guard] is the catch-and-record boundary: an error or panic inside it
// becomes an exception on the file and never reaches the walk loop.
//
// Status is derived, never cached: a file is ok when it has no exceptions and
// no tolerance failures, and a run is ok when it has no run-scoped exceptions
// and every file is ok.
package result
