package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/muxsweep/internal/config"
)

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogPath = filepath.Join(dir, "logs", "muxsweep.log")
	cfg.StdoutPath, cfg.StderrPath = "out", "err" // console off

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("to file")
	l.Debug("debug %d", 7)
	require.NoError(t, l.Close())
	assert.NoError(t, l.Close(), "second Close is a no-op")

	b, err := os.ReadFile(cfg.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "level=info")
	assert.Contains(t, string(b), "to file")
	assert.Contains(t, string(b), "debug 7", "file sink keeps DEBUG")
}

func TestConsoleLevelsAndStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l, err := New(Options{Console: true, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	l.Info("hello")
	l.Success("done")
	l.Warn("careful")
	l.Error("broken")
	l.Debug("hidden")

	out := stdout.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "status=success")
	assert.Contains(t, out, "careful")
	assert.NotContains(t, out, "broken")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, stderr.String(), "broken")
	assert.NotContains(t, out, "\x1b[", "no colors unless requested")
}

func TestConsoleVerboseAndColor(t *testing.T) {
	var stdout bytes.Buffer
	l, err := New(Options{Console: true, Verbose: true, Color: true, Stdout: &stdout, Stderr: &stdout})
	require.NoError(t, err)
	l.Debug("shown")
	assert.Contains(t, stdout.String(), "shown")
	assert.Contains(t, stdout.String(), "\x1b[")
}

type countingHook struct{ n map[logrus.Level]int }

func (h *countingHook) Levels() []logrus.Level { return logrus.AllLevels }
func (h *countingHook) Fire(e *logrus.Entry) error {
	h.n[e.Level]++
	return nil
}

func TestAddHook(t *testing.T) {
	l := Discard()
	h := &countingHook{n: map[logrus.Level]int{}}
	l.AddHook(h)
	l.Info("a")
	l.Warn("b")
	l.Error("c")
	l.Error("d")
	assert.Equal(t, 1, h.n[logrus.InfoLevel])
	assert.Equal(t, 1, h.n[logrus.WarnLevel])
	assert.Equal(t, 2, h.n[logrus.ErrorLevel])
}

func TestLevelsUpTo(t *testing.T) {
	levels := levelsUpTo(logrus.WarnLevel)
	var names []string
	for _, lvl := range levels {
		names = append(names, lvl.String())
	}
	assert.Equal(t, "panic,fatal,error,warning", strings.Join(names, ","))
}
