// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the encoders
// named by the presets.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/muxsweep/internal/preset"
)

// Sentinel errors returned by CheckDeps and EncoderAvailable.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrEncoderMissing  = errors.New("encoder not available in this ffmpeg build")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Tools names the external binaries. Empty fields mean the PATH defaults.
type Tools struct {
	Ffmpeg  string
	Ffprobe string
}

func (t Tools) ffmpeg() string {
	if t.Ffmpeg == "" {
		return "ffmpeg"
	}
	return t.Ffmpeg
}

func (t Tools) ffprobe() string {
	if t.Ffprobe == "" {
		return "ffprobe"
	}
	return t.Ffprobe
}

// CheckDeps verifies ffmpeg and ffprobe can be found and returns their
// resolved paths.
func CheckDeps(t Tools) (Tools, error) {
	ffmpeg, err := exec.LookPath(t.ffmpeg())
	if err != nil {
		return t, ErrFfmpegNotFound
	}
	ffprobe, err := exec.LookPath(t.ffprobe())
	if err != nil {
		return t, ErrFfprobeNotFound
	}
	return Tools{Ffmpeg: ffmpeg, Ffprobe: ffprobe}, nil
}

// RunCheck runs the interactive --check flow: tool versions, then for every
// preset whether its video encoder is compiled into ffmpeg. Informational
// only; it does not stop on failure. It returns the number of problems found.
func RunCheck(ctx context.Context, t Tools, presets preset.Config, log Logger) int {
	log.Info("=== System Check ===")
	problems := 0

	if !checkVersion(ctx, log, t.ffmpeg(), "ffmpeg") {
		problems++
	}
	if !checkVersion(ctx, log, t.ffprobe(), "ffprobe") {
		problems++
	}

	encoders, err := ListEncoders(ctx, t.ffmpeg())
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return problems + 1
	}
	log.Info("Preset encoders:")
	for _, codec := range presets.Sorted() {
		name := presets.VideoEncoder(codec)
		switch {
		case name == "":
			log.Warn("  %s: preset has no -c:v", codec)
		case encoders[name]:
			log.Success("  %s: %s", codec, name)
		default:
			log.Error("  %s: %s not available", codec, name)
			problems++
		}
	}
	return problems
}

// checkVersion logs the first line of `bin -version`.
func checkVersion(ctx context.Context, log Logger, bin, label string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found", label)
		return false
	}
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", label, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", label, firstLine)
	return true
}

// ListEncoders returns the set of encoder names reported by ffmpeg -encoders.
func ListEncoders(ctx context.Context, ffmpeg string) (map[string]bool, error) {
	out, err := exec.CommandContext(ctx, ffmpeg, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg -encoders: %w", err)
	}
	return ParseEncoders(string(out)), nil
}

// ParseEncoders extracts encoder names from ffmpeg -encoders output. Lines
// after the " ------" separator have the form " V....D libx264  description".
func ParseEncoders(out string) map[string]bool {
	encoders := make(map[string]bool)
	body := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "------") {
			body = true
			continue
		}
		if !body {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) >= 2 {
			encoders[fields[1]] = true
		}
	}
	return encoders
}

// EncoderAvailable reports whether the preset for codec names an encoder
// ffmpeg knows. Presets without -c:v are accepted.
func EncoderAvailable(ctx context.Context, t Tools, presets preset.Config, codec preset.Codec) error {
	name := presets.VideoEncoder(codec)
	if name == "" {
		return nil
	}
	encoders, err := ListEncoders(ctx, t.ffmpeg())
	if err != nil {
		return err
	}
	if !encoders[name] {
		return fmt.Errorf("%w: %s", ErrEncoderMissing, name)
	}
	return nil
}
