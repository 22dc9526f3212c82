package pipeline

// Outcome is how processing one file ended.
type Outcome string

const (
	OutcomeTranscoded   Outcome = "transcoded"
	OutcomeExisting     Outcome = "existing"
	OutcomeCopied       Outcome = "copied"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeUnclassified Outcome = "unclassified"
	OutcomeFailed       Outcome = "failed"
)

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Transcoded       int
	Existing         int
	Copied           int
	Skipped          int
	Unclassified     int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

func (s *RunStats) count(o Outcome) {
	switch o {
	case OutcomeTranscoded:
		s.Transcoded++
	case OutcomeExisting:
		s.Existing++
	case OutcomeCopied:
		s.Copied++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeUnclassified:
		s.Unclassified++
	case OutcomeFailed:
		s.Failed++
	}
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
