// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/muxsweep/internal/preset"
)

// ErrUsage marks malformed command-line usage. The CLI exits with a distinct
// status code when an error wraps it.
var ErrUsage = errors.New("usage")

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultSkipExtensions are never probed nor transcoded: subtitles, images,
// text and script files that commonly live next to media.
var DefaultSkipExtensions = []string{".srt", ".jpg", ".txt", ".py", ".pyc"}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths.
	InputDir         string // Default: ".".
	OutputDir        string // Default: ".".
	OutputSuffix     string // Appended to the output stem before the container extension.
	KeepRelativePath bool   // Mirror the input subtree under OutputDir.

	// Encoding.
	VideoCodec    preset.Codec // Set by --h264/--hevc/--av1/--vp9; empty when none given.
	EncoderArgs   string       // Raw encoder override, used only when no codec selector is given.
	MapArgs       string       // Stream mapping override; replaces "-map 0".
	DefaultMap    bool         // Let the encoder pick streams (no "-map 0").
	StripMetadata bool         // Adds "-map_metadata -1".

	// Tolerances.
	DurationTolerance int     // Default: 30 frames.
	PercentTolerance  float64 // Default: 95 percent.

	// Behavior.
	CopyOthers     bool     // Copy files that need no transcode into the output tree.
	SkipExtensions []string // Default: DefaultSkipExtensions.

	// Preset persistence.
	InputYAMLConfig  string
	InputJSONConfig  string
	OutputYAMLConfig bool
	OutputJSONConfig bool

	// Output sinks.
	LogPath        string // Default: "muxsweep.log".
	StdoutPath     string // Encoder stdout and summary go here when set.
	StderrPath     string // Encoder stderr goes here when set.
	SummaryJSON    string // Optional path for the structured run summary.
	AuditDB        string // Optional sqlite path for the per-file audit trail.
	AuditShow      string // Run ID (or "latest") to print from AuditDB and exit.
	AuditHistory   string // File path whose AuditDB history is printed before exit.
	UsePrometheus  bool
	PrometheusPath string // Default: "muxsweep.prom".

	// Display.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		InputDir:          ".",
		OutputDir:         ".",
		DurationTolerance: 30,
		PercentTolerance:  95,
		SkipExtensions:    append([]string(nil), DefaultSkipExtensions...),
		LogPath:           "muxsweep.log",
		PrometheusPath:    "muxsweep.prom",
		ColorMode:         ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ConsoleSuppressed reports whether console logging is off because both
// encoder streams are redirected to files.
func (c *Config) ConsoleSuppressed() bool {
	return c.StdoutPath != "" && c.StderrPath != ""
}

// DumpFormat returns the preset format requested by --output-*-config, if any.
func (c *Config) DumpFormat() (preset.Format, bool) {
	switch {
	case c.OutputYAMLConfig:
		return preset.FormatYAML, true
	case c.OutputJSONConfig:
		return preset.FormatJSON, true
	}
	return "", false
}

// AuditQuery reports whether the run only reads the audit database.
func (c *Config) AuditQuery() bool {
	return c.AuditShow != "" || c.AuditHistory != ""
}

// PresetSource returns the preset file and format requested by
// --input-*-config. ok is false when the built-in presets should be used.
func (c *Config) PresetSource() (path string, format preset.Format, ok bool) {
	switch {
	case c.InputYAMLConfig != "":
		return c.InputYAMLConfig, preset.FormatYAML, true
	case c.InputJSONConfig != "":
		return c.InputJSONConfig, preset.FormatJSON, true
	}
	return "", "", false
}

// Validate checks value ranges and flag combinations. Every error it returns
// wraps [ErrUsage].
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("%w: invalid color mode %q", ErrUsage, c.ColorMode)
	}
	if c.DurationTolerance < 0 {
		return fmt.Errorf("%w: duration tolerance must not be negative", ErrUsage)
	}
	if c.PercentTolerance < 0 {
		return fmt.Errorf("%w: percent tolerance must not be negative", ErrUsage)
	}
	if c.InputYAMLConfig != "" && c.InputJSONConfig != "" {
		return fmt.Errorf("%w: --input-yml-config and --input-json-config are mutually exclusive", ErrUsage)
	}
	if c.OutputYAMLConfig && c.OutputJSONConfig {
		return fmt.Errorf("%w: --output-yml-config and --output-json-config are mutually exclusive", ErrUsage)
	}
	if c.VideoCodec != "" {
		if _, err := preset.ParseCodec(string(c.VideoCodec)); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}
	for _, ext := range c.SkipExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: skip extension %q must start with a dot", ErrUsage, ext)
		}
	}
	if (c.AuditShow != "" || c.AuditHistory != "") && c.AuditDB == "" {
		return fmt.Errorf("%w: --audit-show and --audit-history require --audit-db", ErrUsage)
	}
	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return fmt.Errorf("%w: input and output directories must not be empty", ErrUsage)
	}
	return nil
}

// ValidatePaths reports whether the resolved output directory is inside (or
// equal to) the resolved input directory. Outputs placed there are discovered
// again by later runs. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory is inside the input directory")
	}
	return nil
}
