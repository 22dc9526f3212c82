package preset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in      string
		want    Codec
		wantErr bool
	}{
		{"h264", H264, false},
		{"HEVC", HEVC, false},
		{" av1 ", AV1, false},
		{"vp9", VP9, false},
		{"vp8", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCodec(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCodec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultCoversEveryCodec(t *testing.T) {
	cfg := Default()
	for _, c := range Codecs() {
		assert.True(t, cfg.Has(c), "missing preset for %s", c)
	}
	assert.Equal(t, Codecs(), cfg.Sorted())
}

func TestEncoderArgs(t *testing.T) {
	cfg := Default()

	args, err := cfg.EncoderArgs(HEVC)
	require.NoError(t, err)
	assert.Equal(t, "-c:v libx265 -crf 28", args)

	args, err = cfg.EncoderArgs(AV1)
	require.NoError(t, err)
	assert.Equal(t, "-c:v libaom-av1 -crf 30 -b:v 2000k -strict experimental -row-mt 1 -tile-columns 4 -tile-rows 4 -threads 12", args)

	ext, err := cfg.ContainerExt(VP9)
	require.NoError(t, err)
	assert.Equal(t, ".webm", ext)

	assert.Equal(t, "libvpx-vp9", cfg.VideoEncoder(VP9))
}

func TestLookupMissingCodec(t *testing.T) {
	cfg := Config{H264: Default()[H264]}

	_, err := cfg.EncoderArgs(HEVC)
	assert.ErrorIs(t, err, ErrUnknownCodec)
	_, err = cfg.ContainerExt(AV1)
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.Empty(t, cfg.VideoEncoder(VP9))
}

func TestParamsArgsFlagOnly(t *testing.T) {
	p := Params{{"-c:v", "libx264"}, {"-an", ""}, {"-crf", "20"}}
	assert.Equal(t, "-c:v libx264 -an -crf 20", p.Args())
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			first, err := Marshal(Default(), f)
			require.NoError(t, err)

			loaded, err := Unmarshal(first, f)
			require.NoError(t, err)
			assert.Equal(t, Default(), loaded)

			second, err := Marshal(loaded, f)
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))
		})
	}
}

func TestUnmarshalKeepsParameterOrder(t *testing.T) {
	yml := []byte(`
hevc:
  container: .mkv
  encoder_parameters:
    -preset: slow
    -c:v: libx265
    -crf: 22
`)
	cfg, err := Unmarshal(yml, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "-preset slow -c:v libx265 -crf 22", cfg[HEVC].Params.Args())

	js := []byte(`{"h264": {"container": ".mp4", "encoder_parameters": {"-crf": 18, "-c:v": "libx264"}}}`)
	cfg, err = Unmarshal(js, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "-crf 18 -c:v libx264", cfg[H264].Params.Args())
}

func TestUnmarshalRejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"unknown codec yaml", FormatYAML, "vp8:\n  container: .webm\n  encoder_parameters: {-c:v: libvpx}\n"},
		{"unknown codec json", FormatJSON, `{"theora": {"container": ".ogv", "encoder_parameters": {}}}`},
		{"missing container", FormatJSON, `{"h264": {"encoder_parameters": {"-c:v": "libx264"}}}`},
		{"nested value", FormatJSON, `{"h264": {"container": ".mkv", "encoder_parameters": {"-c:v": ["a"]}}}`},
		{"params not a mapping", FormatYAML, "h264:\n  container: .mkv\n  encoder_parameters: [a, b]\n"},
		{"empty document", FormatJSON, `{}`},
		{"duplicate after case folding", FormatJSON, `{"hevc": {"container": ".mkv"}, "HEVC": {"container": ".mkv"}}`},
		{"not json", FormatJSON, `hevc: {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}

	_, err := Unmarshal([]byte(`{"vp8": {"container": ".webm"}}`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestLoadAndDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yml")

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, Default(), FormatYAML))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg, err := Load(path, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "missing.yml"), FormatYAML)
	assert.Error(t, err)

	assert.Error(t, Dump(&buf, Default(), Format("toml")))
}
