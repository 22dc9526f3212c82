package planner

import "fmt"

// NeedsTranscode reports whether a file with the probed codec must be
// encoded to reach target. Skip-listed and unclassifiable files never are.
func NeedsTranscode(codec string, skippable bool, target string) bool {
	return !skippable && codec != "" && codec != target
}

// Decide applies the per-file decision matrix:
//
//  1. Skip-listed, unclassifiable, or already in the target codec: no
//     transcode. Copy when copy mode is on and the copy does not exist yet.
//  2. Transcode destination exists: compare against it.
//  3. Otherwise transcode.
func Decide(f Facts) Plan {
	var p Plan
	switch {
	case f.Skippable:
		p.Reason = "skip-listed extension"
	case f.Codec == "":
		p.Unclassified = true
		p.Reason = "unclassifiable"
	case f.Codec == f.Target:
		p.Reason = fmt.Sprintf("codec %q matches target", f.Codec)
	case f.OutputExists:
		p.Action = ActionCompareExisting
		p.Reason = "output exists"
		return p
	default:
		p.Action = ActionTranscode
		p.Reason = fmt.Sprintf("codec %q differs from target %q", f.Codec, f.Target)
		return p
	}

	if f.CopyOthers {
		if f.CopyExists {
			p.Reason += "; copy exists"
		} else {
			p.Action = ActionCopy
		}
	}
	return p
}
