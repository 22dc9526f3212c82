package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/muxsweep/internal/compare"
	"github.com/backmassage/muxsweep/internal/display"
	"github.com/backmassage/muxsweep/internal/ffmpeg"
	"github.com/backmassage/muxsweep/internal/logging"
	"github.com/backmassage/muxsweep/internal/naming"
	"github.com/backmassage/muxsweep/internal/planner"
	"github.com/backmassage/muxsweep/internal/probe"
	"github.com/backmassage/muxsweep/internal/result"
)

// Prober classifies files and measures durations; *probe.Prober satisfies it.
type Prober interface {
	Skippable(path string) bool
	Codec(ctx context.Context, path string, rec probe.Recorder) string
	DurationFrames(ctx context.Context, path string, rec probe.Recorder) int
}

// Encoder writes dst from src; *ffmpeg.Encoder satisfies it.
type Encoder interface {
	Encode(ctx context.Context, src string, args []string, dst string) error
}

// Observer is told about every finished file, e.g. to update metrics.
type Observer interface {
	FileDone(outcome string, elapsed time.Duration)
}

// Deps are the collaborators of a run. Log and Observer may be nil.
type Deps struct {
	Prober   Prober
	Encoder  Encoder
	Log      *logging.Logger
	Observer Observer
	// EncoderName is shown in the logged command line; "ffmpeg" when empty.
	EncoderName string
}

type runner struct {
	req      Request
	deps     Deps
	log      *logging.Logger
	run      *result.Run
	resolver *naming.CollisionResolver
	policy   compare.Policy
	stats    RunStats
}

// Run is the top-level batch entry point. It discovers files, processes each
// sequentially into run, and returns aggregate stats. Cancelling ctx kills
// the encoder in flight, removes its partial output and stops the walk.
func Run(ctx context.Context, req Request, deps Deps, run *result.Run) RunStats {
	r := &runner{
		req:      req,
		deps:     deps,
		log:      deps.Log,
		run:      run,
		resolver: naming.NewCollisionResolver(),
		policy: compare.Policy{
			Prober:            deps.Prober,
			DurationTolerance: req.DurationTolerance,
			PercentTolerance:  req.PercentTolerance,
		},
	}
	if r.log == nil {
		r.log = logging.Discard()
	}

	var files []string
	_ = run.Guard(func() error {
		var err error
		files, err = Discover(req.InputDir)
		return err
	})
	files = r.withoutExcluded(files)

	r.stats.Total = len(files)
	r.logBatchHeader()

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		r.stats.Current = i + 1

		start := time.Now()
		outcome, st := r.processFile(ctx, path)
		r.stats.count(outcome)
		if st != nil {
			r.stats.TotalInputBytes += st.InputSize
			r.stats.TotalOutputBytes += st.OutputSize
		}
		if deps.Observer != nil {
			deps.Observer.FileDone(string(outcome), time.Since(start))
		}
	}

	if err := ctx.Err(); err != nil {
		run.Exceptionf("interrupted after %d of %d files: %v", r.stats.Current, len(files), err)
	}

	r.logSummary()
	return r.stats
}

// withoutExcluded drops the run's own sinks (log file, summaries, audit
// database) from the discovered files.
func (r *runner) withoutExcluded(files []string) []string {
	if len(r.req.Exclude) == 0 {
		return files
	}
	skip := make(map[string]bool, len(r.req.Exclude))
	for _, p := range r.req.Exclude {
		skip[filepath.Clean(p)] = true
	}
	kept := files[:0]
	for _, f := range files {
		if skip[filepath.Clean(f)] {
			r.log.Debug("ignoring own output %s", f)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// processFile handles one discovered file: probe → decide → act.
func (r *runner) processFile(ctx context.Context, path string) (Outcome, *result.FileStats) {
	if naming.IsHidden(path) {
		return OutcomeSkipped, nil
	}
	r.log.Info("[%d/%d] %s", r.stats.Current, r.stats.Total, filepath.Base(path))

	outDir, err := naming.OutputDir(r.req.InputDir, r.req.OutputDir, path, r.req.KeepRelativePath)
	if err != nil {
		r.run.Exceptionf("%v", err)
		return OutcomeFailed, nil
	}

	skippable := r.deps.Prober.Skippable(path)
	var codec string
	if err := r.run.Guard(func() error {
		codec = r.deps.Prober.Codec(ctx, path, r.run)
		return nil
	}); err != nil {
		return OutcomeFailed, nil
	}

	target := string(r.req.Target)
	facts := planner.Facts{
		Codec:      codec,
		Skippable:  skippable,
		Target:     target,
		CopyOthers: r.req.CopyOthers,
	}
	copyDst := naming.CopyPath(outDir, path)
	facts.CopyExists = exists(copyDst)

	var dst string
	if planner.NeedsTranscode(codec, skippable, target) {
		requested := naming.TranscodePath(outDir, path, r.req.OutputSuffix, r.req.ContainerExt)
		if requested == path {
			// Encoding in place would overwrite the source.
			r.resolver.Reserve(path)
		}
		dst = r.resolver.Resolve(path, requested)
		facts.OutputExists = exists(dst)
	}

	plan := planner.Decide(facts)
	r.log.Debug("%s: %s (%s)", filepath.Base(path), plan.Action, plan.Reason)

	// A file without a recognized video stream is a classification miss,
	// not a failure: the probe error is already on the run.
	outcome := OutcomeSkipped
	if plan.Unclassified {
		outcome = OutcomeUnclassified
	}

	switch plan.Action {
	case planner.ActionCopy:
		if r.copy(path, copyDst) != nil {
			return OutcomeFailed, nil
		}
		outcome = OutcomeCopied
	case planner.ActionCompareExisting:
		return r.compareExisting(ctx, path, dst, codec)
	case planner.ActionTranscode:
		return r.transcode(ctx, path, outDir, dst, codec)
	}
	return outcome, nil
}

// compareExisting re-checks an output left by an earlier run.
func (r *runner) compareExisting(ctx context.Context, src, dst, codec string) (Outcome, *result.FileStats) {
	scope := r.run.Begin(src)
	defer scope.End()

	var stats *result.FileStats
	if err := scope.Guard(func() error {
		st, total := r.policy.Compare(ctx, src, dst, codec, scope)
		scope.SetStats(st)
		stats = &st
		scope.Infof("skipping %s exists. %s", dst, display.FormatStats(st, total))
		return nil
	}); err != nil || !scope.Status() {
		return OutcomeFailed, stats
	}
	return OutcomeExisting, stats
}

// transcode encodes src to dst inside a file scope. Any failure removes the
// output and is recorded as an exception on the file.
func (r *runner) transcode(ctx context.Context, src, outDir, dst, codec string) (Outcome, *result.FileStats) {
	scope := r.run.Begin(src)
	defer scope.End()

	var stats *result.FileStats
	err := scope.Guard(func() error {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		args := ffmpeg.SplitArgs(r.req.EncoderArgs)
		name := r.deps.EncoderName
		if name == "" {
			name = "ffmpeg"
		}
		scope.Infof("transcode running %s", strings.Join(ffmpeg.Command(name, src, args, dst), " "))

		if err := r.deps.Encoder.Encode(ctx, src, args, dst); err != nil {
			var encErr *ffmpeg.EncodeError
			if errors.As(err, &encErr) {
				if hint := ffmpeg.Diagnose(encErr.Stderr); hint != "" {
					scope.Warnf("%s: %s", filepath.Base(src), hint)
				}
			}
			return fmt.Errorf("transcode %s: %w", src, err)
		}
		if r.deps.Prober.DurationFrames(ctx, dst, scope) == 0 {
			return fmt.Errorf("transcode %s: zero duration for %s", src, dst)
		}

		st, total := r.policy.Compare(ctx, src, dst, codec, scope)
		scope.SetStats(st)
		stats = &st
		scope.Infof("transcode job done: %s %s", dst, display.FormatStats(st, total))
		return nil
	})
	if err != nil {
		removeOutput(dst, scope)
		return OutcomeFailed, nil
	}
	if !scope.Status() {
		return OutcomeFailed, stats
	}
	return OutcomeTranscoded, stats
}

// copy copies src to dst verbatim. Failures are run-scoped exceptions.
func (r *runner) copy(src, dst string) error {
	return r.run.Guard(func() error {
		r.run.Infof("copying %s", dst)
		return copyFile(src, dst)
	})
}

// copyFile writes src to a temporary file next to dst and renames it into
// place, so an interrupted copy never leaves a partial dst behind.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".muxsweep-copy-*")
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if fi, err := in.Stat(); err == nil {
		_ = os.Chmod(tmpName, fi.Mode().Perm())
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// removeOutput deletes a failed or partial output.
func removeOutput(path string, scope *result.Scope) {
	err := os.Remove(path)
	switch {
	case err == nil:
		scope.Infof("removed %s", path)
	case !errors.Is(err, os.ErrNotExist):
		scope.Warnf("cannot remove %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- Logging helpers ---

func (r *runner) logBatchHeader() {
	r.log.Info("Found %d files in %s", r.stats.Total, r.req.InputDir)
	r.log.Info("Target: %s (%s), output: %s", r.req.Target, r.req.ContainerExt, r.req.OutputDir)
	r.log.Info("Encoder args: %s", r.req.EncoderArgs)
	r.log.Info("Tolerances: %d frames, %.2f percent", r.req.DurationTolerance, r.req.PercentTolerance)
	if r.req.KeepRelativePath {
		r.log.Info("Layout: mirror input tree")
	}
	if r.req.CopyOthers {
		r.log.Info("Copy mode: files needing no transcode are copied")
	}
}

func (r *runner) logSummary() {
	s := &r.stats
	r.log.Info("==============================")
	r.log.Info("Done: %d transcoded, %d existing, %d copied, %d skipped, %d unclassified, %d failed",
		s.Transcoded, s.Existing, s.Copied, s.Skipped, s.Unclassified, s.Failed)
	r.log.Info("  Total files processed: %d", s.Current)

	saved := s.SpaceSaved()
	if saved >= 0 {
		r.log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes))
	} else {
		r.log.Warn("  Total space saved: %s (overall output is larger)",
			display.FormatBytesWithSign(saved))
	}
}
