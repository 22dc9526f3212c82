package planner

// Action describes the per-file processing decision.
type Action int

const (
	// ActionSkip leaves the file alone.
	ActionSkip Action = iota
	// ActionCopy copies the file verbatim into the output directory.
	ActionCopy
	// ActionCompareExisting re-checks an output written by an earlier run
	// instead of encoding again.
	ActionCompareExisting
	// ActionTranscode runs the encoder.
	ActionTranscode
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionCopy:
		return "copy"
	case ActionCompareExisting:
		return "compare-existing"
	case ActionTranscode:
		return "transcode"
	}
	return "unknown"
}

// Facts are what the caller knows about one file before deciding.
type Facts struct {
	Codec        string // Probed codec; "" when skip-listed or unclassifiable.
	Skippable    bool   // Extension is on the skip list.
	Target       string // Target codec of the run.
	CopyOthers   bool   // Copy files that need no transcode.
	CopyExists   bool   // The copy destination already exists.
	OutputExists bool   // The transcode destination already exists.
}

// Plan is the decision for one file.
type Plan struct {
	Action Action
	// Unclassified is set when the file is not skip-listed but its codec
	// could not be determined. Such files are never transcoded.
	Unclassified bool
	Reason       string
}
