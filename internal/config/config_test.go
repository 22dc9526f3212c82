package config

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/muxsweep/internal/preset"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/library", "/media/library"},
		{"single trailing slash", "/media/library/", "/media/library"},
		{"multiple trailing slashes", "/media/library///", "/media/library"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".", cfg.InputDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 30, cfg.DurationTolerance)
	assert.Equal(t, 95.0, cfg.PercentTolerance)
	assert.Equal(t, DefaultSkipExtensions, cfg.SkipExtensions)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	require.NoError(t, cfg.Validate())
}

func TestParseFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{
		"--input-dir", "/in/",
		"--output-dir=/out",
		"--output-suffix", "_small",
		"--keep-relative-path",
		"--av1",
		"--strip-metadata",
		"--duration-tolerance", "5",
		"--percent-tolerance", "50.5",
		"--copy",
		"--skip-ext", "NFO, .txt,,srt",
		"--no-color",
	})
	require.NoError(t, err)

	assert.Equal(t, "/in", cfg.InputDir)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, "_small", cfg.OutputSuffix)
	assert.True(t, cfg.KeepRelativePath)
	assert.Equal(t, preset.AV1, cfg.VideoCodec)
	assert.True(t, cfg.StripMetadata)
	assert.Equal(t, 5, cfg.DurationTolerance)
	assert.Equal(t, 50.5, cfg.PercentTolerance)
	assert.True(t, cfg.CopyOthers)
	assert.Equal(t, []string{".nfo", ".txt", ".srt"}, cfg.SkipExtensions)
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestParseFlags_NoSelectorLeavesCodecEmpty(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--encoder-args", "-c:v libx264 -crf 18"}))
	assert.Empty(t, cfg.VideoCodec)
	assert.Equal(t, "-c:v libx264 -crf 18", cfg.EncoderArgs)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"mutually exclusive selectors", []string{"--hevc", "--vp9"}},
		{"unknown flag", []string{"--bogus"}},
		{"positional argument", []string{"extra"}},
		{"malformed tolerance", []string{"--duration-tolerance", "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ParseFlags(&cfg, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestParseFlags_VersionAndHelp(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, ParseFlags(&cfg, []string{"--version"}), ErrVersion)

	cfg = DefaultConfig()
	err := ParseFlags(&cfg, []string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid color mode", func(c *Config) { c.ColorMode = "sometimes" }},
		{"negative duration tolerance", func(c *Config) { c.DurationTolerance = -1 }},
		{"negative percent tolerance", func(c *Config) { c.PercentTolerance = -0.5 }},
		{"both preset inputs", func(c *Config) { c.InputYAMLConfig, c.InputJSONConfig = "a.yml", "a.json" }},
		{"both preset outputs", func(c *Config) { c.OutputYAMLConfig, c.OutputJSONConfig = true, true }},
		{"unknown codec", func(c *Config) { c.VideoCodec = "mpeg4" }},
		{"undotted skip extension", func(c *Config) { c.SkipExtensions = []string{"srt"} }},
		{"empty input dir", func(c *Config) { c.InputDir = "" }},
		{"audit history without db", func(c *Config) { c.AuditHistory = "a.avi" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.InputDir = ""
	assert.NoError(t, cfg.Validate())
}

func TestPresetSourceAndDumpFormat(t *testing.T) {
	cfg := DefaultConfig()
	_, _, ok := cfg.PresetSource()
	assert.False(t, ok)
	_, ok = cfg.DumpFormat()
	assert.False(t, ok)

	cfg.InputJSONConfig = "presets.json"
	path, format, ok := cfg.PresetSource()
	require.True(t, ok)
	assert.Equal(t, "presets.json", path)
	assert.Equal(t, preset.FormatJSON, format)

	cfg.OutputYAMLConfig = true
	format, ok = cfg.DumpFormat()
	require.True(t, ok)
	assert.Equal(t, preset.FormatYAML, format)
}

func TestConsoleSuppressed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StdoutPath = "out.log"
	assert.False(t, cfg.ConsoleSuppressed())
	cfg.StderrPath = "err.log"
	assert.True(t, cfg.ConsoleSuppressed())
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		wantErr bool
	}{
		{"separate dirs", "/media/in", "/media/out", false},
		{"same dir", "/media/in", "/media/in", true},
		{"nested output", "/media/in", "/media/in/out", true},
		{"sibling with shared prefix", "/media/in", "/media/input", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.input, tt.output)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
