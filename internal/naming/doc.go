// Package naming builds output paths for transcoded and copied files and
// resolves output-name collisions within a run.
//
// A transcode of <dir>/<stem><ext> is written as
// <output>/<stem><suffix><container>, or under the mirrored input subtree
// when relative paths are kept. Copies keep their original base name.
package naming
