package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/muxsweep/internal/audit"
	"github.com/backmassage/muxsweep/internal/config"
	"github.com/backmassage/muxsweep/internal/logging"
	"github.com/backmassage/muxsweep/internal/metrics"
	"github.com/backmassage/muxsweep/internal/preset"
	"github.com/backmassage/muxsweep/internal/result"
)

// syncBuffer is a bytes.Buffer safe for the signal goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"--version"}, exitOK},
		{"help", []string{"--help"}, exitOK},
		{"unknown flag", []string{"--bogus"}, exitUsage},
		{"two codec selectors", []string{"--h264", "--vp9"}, exitUsage},
		{"negative tolerance", []string{"--duration-tolerance", "-1"}, exitUsage},
		{"both preset sources", []string{"--input-yml-config", "a", "--input-json-config", "b"}, exitUsage},
		{"audit show without db", []string{"--audit-show", "latest"}, exitUsage},
		{"missing preset file", []string{"--input-yml-config", filepath.Join(t.TempDir(), "nope.yml"), "--output-json-config"}, exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestRunDumpsPresets(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []preset.Format{preset.FormatYAML, preset.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			out := filepath.Join(dir, "presets."+string(format))
			flagName := "--output-yml-config"
			if format == preset.FormatJSON {
				flagName = "--output-json-config"
			}
			require.Equal(t, exitOK, run([]string{flagName, "--stdout-path", out}))

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			got, err := preset.Unmarshal(data, format)
			require.NoError(t, err)
			assert.Equal(t, preset.Default(), got)
		})
	}
}

func TestRunLoadsPresetsBeforeDump(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	custom := preset.Config{
		preset.HEVC: {Container: ".mp4", Params: preset.Params{{Flag: "-c:v", Value: "libx265"}, {Flag: "-crf", Value: "22"}}},
	}
	data, err := preset.Marshal(custom, preset.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data, 0o644))

	out := filepath.Join(dir, "out.yml")
	require.Equal(t, exitOK, run([]string{"--input-json-config", in, "--output-yml-config", "--stdout-path", out}))

	data, err = os.ReadFile(out)
	require.NoError(t, err)
	got, err := preset.Unmarshal(data, preset.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestRunPrintsAuditTrail(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "audit.db")
	out := filepath.Join(dir, "out.txt")

	require.Equal(t, exitFailure, run([]string{"--audit-db", db, "--audit-show", "latest", "--stdout-path", out}),
		"empty database has no latest run")

	batch := result.NewRun(nil)
	f := batch.Begin("/in/a.avi")
	f.SetStats(result.FileStats{InputSize: 100, OutputSize: 40})
	f.AddSaved(60)
	f.End()
	batch.Finish()
	sum := batch.Summary()

	store, err := audit.Open(db)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(sum))
	require.NoError(t, store.Close())

	require.Equal(t, exitOK, run([]string{"--audit-db", db, "--audit-show", sum.ID, "--audit-history", "/in/a.avi", "--stdout-path", out}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run "+sum.ID+" status: ok")
	assert.Contains(t, string(data), "/in/a.avi: ok\n  size: 100 -> 40 (60 bytes, 60.00%)")
	assert.Contains(t, string(data), "/in/a.avi: 1 recorded results")

	assert.Equal(t, exitFailure, run([]string{"--audit-db", db, "--audit-show", "no-such-run", "--stdout-path", out}))
}

func TestReporterWritesAllDestinations(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SummaryJSON = filepath.Join(dir, "summary.json")
	cfg.PrometheusPath = filepath.Join(dir, "muxsweep.prom")

	batch := result.NewRun(nil)
	scope := batch.Begin("/in/a.avi")
	scope.SetStats(result.FileStats{InputSize: 1000, OutputSize: 400})
	scope.AddSaved(600)
	scope.End()
	batch.Finish()

	var text syncBuffer
	rep := &reporter{cfg: &cfg, out: &text, log: logging.Discard(), metrics: metrics.New()}
	rep.report(batch.Summary())

	assert.Contains(t, text.String(), "status: ok")
	assert.Contains(t, text.String(), "/in/a.avi: ok")

	data, err := os.ReadFile(cfg.SummaryJSON)
	require.NoError(t, err)
	var sum result.Summary
	require.NoError(t, json.Unmarshal(data, &sum))
	assert.True(t, sum.Status)
	assert.Equal(t, int64(600), sum.TotalSaved)
	require.Len(t, sum.Files, 1)
	assert.Equal(t, "/in/a.avi", sum.Files[0].Path)

	prom, err := os.ReadFile(cfg.PrometheusPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(prom), "muxsweep_"), string(prom))
}

func TestOpenSinksFallsBackToProcessStreams(t *testing.T) {
	cfg := config.DefaultConfig()
	s, err := openSinks(&cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, os.Stdout, s.stdout)
	assert.Equal(t, os.Stderr, s.encStderr)

	dir := t.TempDir()
	cfg.StdoutPath = filepath.Join(dir, "logs", "out.txt")
	cfg.StderrPath = filepath.Join(dir, "logs", "err.txt")
	s, err = openSinks(&cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.FileExists(t, cfg.StdoutPath)
	assert.FileExists(t, cfg.StderrPath)
	assert.Same(t, s.stdout, s.encStdout)
}
