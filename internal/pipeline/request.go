package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/backmassage/muxsweep/internal/config"
	"github.com/backmassage/muxsweep/internal/ffmpeg"
	"github.com/backmassage/muxsweep/internal/preset"
)

// Request is the read-only description of a run, derived once from the
// configuration and the presets.
type Request struct {
	InputDir          string
	OutputDir         string
	OutputSuffix      string
	KeepRelativePath  bool
	Target            preset.Codec
	ContainerExt      string
	EncoderArgs       string
	DurationTolerance int
	PercentTolerance  float64
	CopyOthers        bool
	// Exclude lists absolute paths never processed: the files the run
	// itself writes, which may live inside the input tree.
	Exclude []string
}

// NewRequest resolves directories to absolute paths and assembles the
// encoder arguments. A target codec without a preset is an error.
func NewRequest(cfg *config.Config, presets preset.Config) (Request, error) {
	args, target, err := ffmpeg.BuildEncoderArgs(ffmpeg.ArgOptions{
		MapArgs:       cfg.MapArgs,
		DefaultMap:    cfg.DefaultMap,
		StripMetadata: cfg.StripMetadata,
		Codec:         cfg.VideoCodec,
		Override:      cfg.EncoderArgs,
	}, presets)
	if err != nil {
		return Request{}, err
	}
	ext, err := presets.ContainerExt(target)
	if err != nil {
		return Request{}, err
	}
	in, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return Request{}, fmt.Errorf("input directory: %w", err)
	}
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return Request{}, fmt.Errorf("output directory: %w", err)
	}
	return Request{
		InputDir:          in,
		OutputDir:         out,
		OutputSuffix:      cfg.OutputSuffix,
		KeepRelativePath:  cfg.KeepRelativePath,
		Target:            target,
		ContainerExt:      ext,
		EncoderArgs:       args,
		DurationTolerance: cfg.DurationTolerance,
		PercentTolerance:  cfg.PercentTolerance,
		CopyOthers:        cfg.CopyOthers,
		Exclude:           ownOutputs(cfg),
	}, nil
}

// ownOutputs returns the absolute paths of every file the run writes
// outside the output tree.
func ownOutputs(cfg *config.Config) []string {
	paths := []string{cfg.LogPath, cfg.StdoutPath, cfg.StderrPath, cfg.SummaryJSON}
	if cfg.UsePrometheus {
		paths = append(paths, cfg.PrometheusPath)
	}
	if cfg.AuditDB != "" {
		for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
			paths = append(paths, cfg.AuditDB+suffix)
		}
	}
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}
