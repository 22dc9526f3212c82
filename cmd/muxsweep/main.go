// Command muxsweep is the CLI entrypoint for the muxsweep batch transcoder.
//
// It parses flags, loads the encoding presets, and either dumps them, runs
// system diagnostics (--check), or walks the input tree transcoding every
// file that is not yet in the target codec.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/backmassage/muxsweep/internal/audit"
	"github.com/backmassage/muxsweep/internal/check"
	"github.com/backmassage/muxsweep/internal/config"
	"github.com/backmassage/muxsweep/internal/display"
	"github.com/backmassage/muxsweep/internal/ffmpeg"
	"github.com/backmassage/muxsweep/internal/logging"
	"github.com/backmassage/muxsweep/internal/metrics"
	"github.com/backmassage/muxsweep/internal/pipeline"
	"github.com/backmassage/muxsweep/internal/preset"
	"github.com/backmassage/muxsweep/internal/probe"
	"github.com/backmassage/muxsweep/internal/result"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exit is replaced in tests.
var exit = os.Exit

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return exitOK
		case errors.Is(err, config.ErrVersion):
			fmt.Printf("muxsweep %s (%s)\n", version, commit)
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'muxsweep --help' for usage.")
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		return exitUsage
	}

	presets, err := loadPresets(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		return exitFailure
	}

	out, err := openSinks(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		return exitFailure
	}
	defer out.Close()

	if format, ok := cfg.DumpFormat(); ok {
		if err := preset.Dump(out.stdout, presets, format); err != nil {
			fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
			return exitFailure
		}
		return exitOK
	}
	if cfg.AuditQuery() {
		return showAudit(&cfg, out.stdout)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		return exitFailure
	}
	defer log.Close()

	var m *metrics.Metrics
	if cfg.UsePrometheus {
		m = metrics.New()
		log.AddHook(m.Hook())
	}

	// Phase 2: Logger available. All output goes through log from here on.
	if !cfg.ConsoleSuppressed() {
		display.PrintBanner(os.Stdout, version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.CheckOnly {
		if check.RunCheck(ctx, check.Tools{}, presets, log) > 0 {
			return exitFailure
		}
		return exitOK
	}

	tools, err := check.CheckDeps(check.Tools{})
	if err != nil {
		log.Error("%v", err)
		return exitFailure
	}

	req, err := pipeline.NewRequest(&cfg, presets)
	if err != nil {
		log.Error("%v", err)
		return exitFailure
	}
	if cfg.VideoCodec != "" || cfg.EncoderArgs == "" {
		if err := check.EncoderAvailable(ctx, tools, presets, req.Target); err != nil {
			log.Warn("%v", err)
		}
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return exitFailure
	}
	if inputAbs, err := absPath(req.InputDir); err == nil {
		if outputAbs, err := absPath(req.OutputDir); err == nil {
			if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
				log.Warn("%v; its outputs will be discovered again by later runs", err)
			}
		}
	}

	var store *audit.Store
	if cfg.AuditDB != "" {
		store, err = audit.Open(cfg.AuditDB)
		if err != nil {
			log.Error("%v", err)
			return exitFailure
		}
		defer store.Close()
	}

	batch := result.NewRun(log)
	log.Info("=== muxsweep v%s (%s) run %s ===", version, commit, batch.ID())
	log.Info("In:  %s", req.InputDir)
	log.Info("Out: %s", req.OutputDir)

	rep := &reporter{cfg: &cfg, out: out.stdout, log: log, metrics: m}

	// Phase 3: Signal handling. An interrupt cancels ctx so the pipeline
	// stops after cleaning up the current file; a status signal only reports.
	stopSignals := handleSignals(batch, rep, cancel)
	defer stopSignals()

	// Phase 4: Run the batch (discover → probe → decide → act).
	deps := pipeline.Deps{
		Prober:      probe.New(tools.Ffprobe, nil, cfg.SkipExtensions),
		Encoder:     &ffmpeg.Encoder{Path: tools.Ffmpeg, Stdout: out.encStdout, Stderr: out.encStderr},
		Log:         log,
		EncoderName: "ffmpeg",
	}
	if m != nil {
		deps.Observer = m
	}
	pipeline.Run(ctx, req, deps, batch)
	batch.Finish()

	sum := batch.Summary()
	rep.report(sum)
	if store != nil {
		if err := store.SaveRun(sum); err != nil {
			log.Error("audit: %v", err)
		}
	}
	if !sum.Status {
		return exitFailure
	}
	return exitOK
}

func loadPresets(cfg *config.Config) (preset.Config, error) {
	path, format, ok := cfg.PresetSource()
	if !ok {
		return preset.Default(), nil
	}
	return preset.Load(path, format)
}

// sinks are the destinations for the summary and the encoder's streams.
type sinks struct {
	stdout    io.Writer
	encStdout io.Writer
	encStderr io.Writer
	files     []*os.File
}

// openSinks opens --stdout-path and --stderr-path. Unset paths fall back to
// the process streams.
func openSinks(cfg *config.Config) (*sinks, error) {
	s := &sinks{stdout: os.Stdout, encStdout: os.Stdout, encStderr: os.Stderr}
	if cfg.StdoutPath != "" {
		f, err := createSink(cfg.StdoutPath)
		if err != nil {
			return nil, err
		}
		s.files = append(s.files, f)
		s.stdout, s.encStdout = f, f
	}
	if cfg.StderrPath != "" {
		f, err := createSink(cfg.StderrPath)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.files = append(s.files, f)
		s.encStderr = f
	}
	return s, nil
}

func createSink(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (s *sinks) Close() {
	for _, f := range s.files {
		f.Close()
	}
	s.files = nil
}

// reporter writes the run summary to every configured destination.
type reporter struct {
	mu      sync.Mutex
	cfg     *config.Config
	out     io.Writer
	log     *logging.Logger
	metrics *metrics.Metrics
}

// status writes only the text summary.
func (r *reporter) status(sum result.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := sum.WriteText(r.out); err != nil {
		r.log.Error("write summary: %v", err)
	}
}

// report writes the text summary, the JSON summary and the metrics textfile.
func (r *reporter) report(sum result.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := sum.WriteText(r.out); err != nil {
		r.log.Error("write summary: %v", err)
	}
	if r.cfg.SummaryJSON != "" {
		if err := writeSummaryJSON(r.cfg.SummaryJSON, sum); err != nil {
			r.log.Error("write summary: %v", err)
		}
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(sum)
		if err := r.metrics.WriteTextfile(r.cfg.PrometheusPath); err != nil {
			r.log.Error("write metrics: %v", err)
		}
	}
}

func writeSummaryJSON(path string, sum result.Summary) error {
	f, err := createSink(path)
	if err != nil {
		return err
	}
	if err := sum.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
