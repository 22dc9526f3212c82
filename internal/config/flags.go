package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into input/output, logging, stream, tolerance, encoding and utility.
// The codec selectors are plain booleans checked for mutual exclusion after Parse.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/backmassage/muxsweep/internal/preset"
)

// ErrVersion is returned by [ParseFlags] when --version was given.
var ErrVersion = errors.New("version requested")

// ParseFlags parses args (without the program name) into cfg. It returns
// [flag.ErrHelp] after printing usage for --help, [ErrVersion] for --version,
// and an error wrapping [ErrUsage] for anything malformed.
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("muxsweep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var sel codecSelectors
	var showHelp, showVersion bool

	defineIOFlags(fs, cfg)
	defineLoggingFlags(fs, cfg)
	defineStreamFlags(fs, cfg)
	defineToleranceFlags(fs, cfg)
	defineEncodingFlags(fs, cfg, &sel)
	defineUtilityFlags(fs, cfg, &showHelp, &showVersion)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if showHelp {
		PrintUsage(os.Stderr)
		return flag.ErrHelp
	}
	if showVersion {
		return ErrVersion
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	codec, err := sel.resolve()
	if err != nil {
		return err
	}
	cfg.VideoCodec = codec
	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// codecSelectors holds the mutually exclusive --h264/--hevc/--av1/--vp9 flags.
type codecSelectors struct {
	h264, hevc, av1, vp9 bool
}

func (s *codecSelectors) resolve() (preset.Codec, error) {
	var picked []preset.Codec
	if s.h264 {
		picked = append(picked, preset.H264)
	}
	if s.hevc {
		picked = append(picked, preset.HEVC)
	}
	if s.av1 {
		picked = append(picked, preset.AV1)
	}
	if s.vp9 {
		picked = append(picked, preset.VP9)
	}
	switch len(picked) {
	case 0:
		return "", nil
	case 1:
		return picked[0], nil
	}
	return "", fmt.Errorf("%w: codec selectors are mutually exclusive (got --%s and --%s)", ErrUsage, picked[0], picked[1])
}

// defineIOFlags registers input/output directories, suffix and redirections.
func defineIOFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.InputDir, "input-dir", cfg.InputDir, "Directory where media files are found")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory where media files are written")
	fs.StringVar(&cfg.OutputSuffix, "output-suffix", cfg.OutputSuffix, "Suffix added to output file names")
	fs.BoolVar(&cfg.KeepRelativePath, "keep-relative-path", false, "Mirror the input tree under the output directory")
	fs.StringVar(&cfg.StdoutPath, "stdout-path", "", "Redirect encoder stdout and the summary to path")
	fs.StringVar(&cfg.StderrPath, "stderr-path", "", "Redirect encoder stderr to path")
	fs.StringVar(&cfg.SummaryJSON, "summary-json", "", "Write the structured run summary to path")
	fs.StringVar(&cfg.AuditDB, "audit-db", "", "Record runs and per-file results in a sqlite database")
	fs.StringVar(&cfg.AuditShow, "audit-show", "", "Print a stored run (ID or \"latest\") from --audit-db and exit")
	fs.StringVar(&cfg.AuditHistory, "audit-history", "", "Print every stored result for a file from --audit-db and exit")
	fs.BoolVar(&cfg.CopyOthers, "copy", false, "Copy files that need no transcode to the output directory")
	fs.Var(&extListValue{&cfg.SkipExtensions}, "skip-ext", "Comma-separated extensions never probed")
}

// defineLoggingFlags registers the log file and Prometheus textfile options.
func defineLoggingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "Log file path")
	fs.BoolVar(&cfg.UsePrometheus, "use-prometheus-logging", false, "Count log entries and run metrics for Prometheus")
	fs.StringVar(&cfg.PrometheusPath, "prometheus-log-path", cfg.PrometheusPath, "Prometheus textfile path")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose console output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.Var(&colorValue{&cfg.ColorMode, ColorAlways}, "color", "Force colored logs")
	fs.Var(&colorValue{&cfg.ColorMode, ColorNever}, "no-color", "Disable colored logs")
}

// defineStreamFlags registers stream mapping and metadata options.
func defineStreamFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DefaultMap, "default-map", false, "Use the encoder's default stream mapping instead of mapping all streams")
	fs.StringVar(&cfg.MapArgs, "map-args", "", "Stream mapping arguments")
	fs.BoolVar(&cfg.StripMetadata, "strip-metadata", false, "Remove most metadata from the output")
}

// defineToleranceFlags registers the comparison tolerances.
func defineToleranceFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.DurationTolerance, "duration-tolerance", cfg.DurationTolerance, "Tolerated duration difference in frames")
	fs.Float64Var(&cfg.PercentTolerance, "percent-tolerance", cfg.PercentTolerance, "Tolerated size reduction in percent")
}

// defineEncodingFlags registers encoder overrides, codec selectors and preset I/O.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config, sel *codecSelectors) {
	fs.StringVar(&cfg.EncoderArgs, "encoder-args", "", "Override preset encoder arguments")
	fs.BoolVar(&sel.h264, "h264", false, "Target h264")
	fs.BoolVar(&sel.hevc, "hevc", false, "Target hevc (default)")
	fs.BoolVar(&sel.av1, "av1", false, "Target av1")
	fs.BoolVar(&sel.vp9, "vp9", false, "Target vp9")
	fs.StringVar(&cfg.InputYAMLConfig, "input-yml-config", "", "Load encoding presets from a YAML file")
	fs.StringVar(&cfg.InputJSONConfig, "input-json-config", "", "Load encoding presets from a JSON file")
	fs.BoolVar(&cfg.OutputYAMLConfig, "output-yml-config", false, "Print encoding presets as YAML and exit")
	fs.BoolVar(&cfg.OutputJSONConfig, "output-json-config", false, "Print encoding presets as JSON and exit")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, showHelp, showVersion *bool) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(showVersion, "version", false, "Print version and exit")
	fs.BoolVar(showVersion, "V", false, "Same as --version")
	fs.BoolVar(showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(showHelp, "h", false, "Same as --help")
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer) {
	const col1 = 34
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "muxsweep - normalize a media library to one video codec"},
		{"", ""},
		{"  muxsweep [OPTIONS]", ""},
		{"", ""},
		{"Input/output", ""},
		{"  --input-dir <dir>", "Directory where media files are found (default: .)"},
		{"  --output-dir <dir>", "Directory where media files are written (default: .)"},
		{"  --output-suffix <s>", "Suffix added to output file names"},
		{"  --keep-relative-path", "Mirror the input tree under the output directory"},
		{"  --copy", "Copy files that need no transcode"},
		{"  --skip-ext <list>", "Extensions never probed (default: .srt,.jpg,.txt,.py,.pyc)"},
		{"  --stdout-path <path>", "Redirect encoder stdout and the summary"},
		{"  --stderr-path <path>", "Redirect encoder stderr"},
		{"  --summary-json <path>", "Write the structured run summary"},
		{"  --audit-db <path>", "Record the run in a sqlite audit database"},
		{"  --audit-show <id|latest>", "Print a stored run and exit"},
		{"  --audit-history <file>", "Print the stored results of one file and exit"},
		{"", ""},
		{"Logging", ""},
		{"  --log-path <path>", "Log file (default: muxsweep.log)"},
		{"  --use-prometheus-logging", "Export log and run metrics to a textfile"},
		{"  --prometheus-log-path <path>", "Prometheus textfile (default: muxsweep.prom)"},
		{"  --color, --no-color", "Force or disable colored logs"},
		{"  -v, --verbose", "Verbose console output"},
		{"", ""},
		{"Streams", ""},
		{"  --default-map", "Use the encoder's default stream mapping"},
		{"  --map-args <args>", "Stream mapping arguments (default: -map 0)"},
		{"  --strip-metadata", "Remove most metadata"},
		{"", ""},
		{"Tolerances", ""},
		{"  --duration-tolerance <frames>", "Tolerated duration difference (default: 30)"},
		{"  --percent-tolerance <percent>", "Tolerated size reduction (default: 95)"},
		{"", ""},
		{"Encoding", ""},
		{"  --h264 | --hevc | --av1 | --vp9", "Target codec (default: hevc)"},
		{"  --encoder-args <args>", "Override preset encoder arguments"},
		{"  --input-yml-config <path>", "Load presets from YAML"},
		{"  --input-json-config <path>", "Load presets from JSON"},
		{"  --output-yml-config", "Print presets as YAML and exit"},
		{"  --output-json-config", "Print presets as JSON and exit"},
		{"", ""},
		{"Utility", ""},
		{"  --check", "System diagnostics (ffmpeg, ffprobe, preset encoders)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters.

// colorValue is a boolean-style flag that pins ColorMode to a fixed value.
type colorValue struct {
	p    *ColorMode
	mode ColorMode
}

func (c *colorValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorValue) IsBoolFlag() bool { return true }

func (c *colorValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "true", "1":
		*c.p = c.mode
	case "false", "0":
	default:
		return fmt.Errorf("invalid value %q", s)
	}
	return nil
}

// extListValue parses a comma-separated extension list, lowercasing entries
// and adding a leading dot when missing.
type extListValue struct{ p *[]string }

func (e *extListValue) String() string {
	if e.p == nil {
		return ""
	}
	return strings.Join(*e.p, ",")
}

func (e *extListValue) Set(s string) error {
	var exts []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		exts = append(exts, part)
	}
	*e.p = exts
	return nil
}
