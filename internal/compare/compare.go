// Package compare checks a transcoded output against its input: duration
// drift and size reduction, each bounded by a configured tolerance.
package compare

import (
	"context"
	"os"
	"path/filepath"

	"github.com/backmassage/muxsweep/internal/probe"
	"github.com/backmassage/muxsweep/internal/result"
)

// DurationProber returns a file's duration; *probe.Prober satisfies it.
type DurationProber interface {
	DurationFrames(ctx context.Context, path string, rec probe.Recorder) int
}

// Recorder receives comparison outcomes. *result.Run and *result.Scope
// satisfy it.
type Recorder interface {
	probe.Recorder
	ToleranceFailuref(format string, args ...interface{})
	AddSaved(n int64) int64
}

// Policy holds the tolerances applied to every input/output pair.
type Policy struct {
	Prober            DurationProber
	DurationTolerance int     // Maximum |out - in| duration difference.
	PercentTolerance  float64 // Maximum percent saved before the output is suspicious.
}

// Compare probes both durations, records a tolerance failure when they drift
// by more than DurationTolerance, adds the bytes saved to the running total
// and records a tolerance failure when the output shrank by more than
// PercentTolerance percent. It returns the sizes and the new running total.
// Missing files count as size 0.
func (p Policy) Compare(ctx context.Context, input, output, codec string, rec Recorder) (result.FileStats, int64) {
	inFrames := p.Prober.DurationFrames(ctx, input, rec)
	outFrames := p.Prober.DurationFrames(ctx, output, rec)

	inName, outName := filepath.Base(input), filepath.Base(output)
	if abs(inFrames-outFrames) > p.DurationTolerance {
		rec.ToleranceFailuref("duration differs input: %s:%d frames output %s:%d frames out duration - in duration:%d frames",
			inName, inFrames, outName, outFrames, outFrames-inFrames)
	}

	st := result.FileStats{InputSize: fileSize(input), OutputSize: fileSize(output)}
	total := rec.AddSaved(st.BytesSaved())

	pct, ok := st.PercentSaved()
	if !ok {
		rec.Errorf("cannot compute percent saved for %s: input size is %d", inName, st.InputSize)
		return st, total
	}
	if pct > p.PercentTolerance {
		rec.ToleranceFailuref("file size percent difference is too high: %2.2f for file %s input codec %s",
			pct, outName, codec)
	}
	return st, total
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
