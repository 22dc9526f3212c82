package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Recorder receives probe failures. *result.Run and *result.Scope satisfy it.
type Recorder interface {
	Errorf(format string, args ...any)
}

// Runner executes an external command and returns its stdout.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs name with args. A non-zero exit is returned as an error that
// carries the trimmed stderr.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, fmt.Errorf("exit status %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return out, err
	}
	return out, nil
}

// Prober runs ffprobe single-value queries.
type Prober struct {
	Path   string // ffprobe binary; "ffprobe" when empty.
	Runner Runner // ExecRunner when nil.

	skip map[string]bool
}

// New returns a Prober that treats files with any of skipExts (lowercase,
// with leading dot) as non-media.
func New(path string, runner Runner, skipExts []string) *Prober {
	skip := make(map[string]bool, len(skipExts))
	for _, ext := range skipExts {
		skip[strings.ToLower(ext)] = true
	}
	return &Prober{Path: path, Runner: runner, skip: skip}
}

// Skippable reports whether path carries a skip-listed extension.
func (p *Prober) Skippable(path string) bool {
	return p.skip[strings.ToLower(filepath.Ext(path))]
}

func codecArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

func durationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// Codec returns the codec name of path's first video stream. Skip-listed
// files return "" without recording anything. Probe failures and codecs
// outside the recognized set return "" and are recorded on rec.
func (p *Prober) Codec(ctx context.Context, path string, rec Recorder) string {
	if p.Skippable(path) {
		return ""
	}
	out, err := p.run(ctx, codecArgs(path))
	if err != nil {
		rec.Errorf("probe codec %s: %v", path, err)
		return ""
	}
	name := firstLine(out)
	if !IsVideoCodec(name) {
		rec.Errorf("probe codec %s: unrecognized video codec %q", path, name)
		return ""
	}
	return name
}

// DurationFrames returns path's container duration rounded up to whole
// units. Zero means unknown; the cause is recorded on rec.
func (p *Prober) DurationFrames(ctx context.Context, path string, rec Recorder) int {
	out, err := p.run(ctx, durationArgs(path))
	if err != nil {
		rec.Errorf("probe duration %s: %v", path, err)
		return 0
	}
	frames, err := ParseDuration(firstLine(out))
	if err != nil {
		rec.Errorf("probe duration %s: %v", path, err)
		return 0
	}
	return frames
}

// ParseDuration converts ffprobe's seconds value to an integer, rounding up.
// Zero, negative and unparsable values are errors.
func ParseDuration(s string) (int, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("unparsable duration %q", s)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("zero duration %q", s)
	}
	return int(math.Ceil(secs)), nil
}

func (p *Prober) run(ctx context.Context, args []string) ([]byte, error) {
	name := p.Path
	if name == "" {
		name = "ffprobe"
	}
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Output(ctx, name, args...)
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
