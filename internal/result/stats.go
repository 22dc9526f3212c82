package result

// FileStats holds the input and output sizes of one transcode.
type FileStats struct {
	InputSize  int64 `json:"input_size" yaml:"input_size"`
	OutputSize int64 `json:"output_size" yaml:"output_size"`
}

// BytesSaved is InputSize - OutputSize; negative when the output grew.
func (s FileStats) BytesSaved() int64 {
	return s.InputSize - s.OutputSize
}

// PercentSaved is (1 - OutputSize/InputSize) * 100. ok is false when the
// input size is not positive, in which case the percentage is 0.
func (s FileStats) PercentSaved() (pct float64, ok bool) {
	if s.InputSize <= 0 {
		return 0, false
	}
	return (1 - float64(s.OutputSize)/float64(s.InputSize)) * 100, true
}
