package ffmpeg

import (
	"strings"

	"github.com/backmassage/muxsweep/internal/preset"
)

// ArgOptions selects how the encoder argument string is assembled.
type ArgOptions struct {
	MapArgs       string       // Replaces the default "-map 0" when set.
	DefaultMap    bool         // Let ffmpeg choose streams; ignored when MapArgs is set.
	StripMetadata bool         // Adds "-map_metadata -1".
	Codec         preset.Codec // Codec selector; empty when none was given.
	Override      string       // Raw encoder arguments used when Codec is empty.
}

// BuildEncoderArgs assembles the encoder argument string in this order:
// stream mapping, metadata stripping, then the selected codec's preset, the
// raw override, or the default codec's preset. It returns the arguments and
// the codec outputs are named for.
func BuildEncoderArgs(opts ArgOptions, presets preset.Config) (string, preset.Codec, error) {
	var parts []string
	switch {
	case opts.MapArgs != "":
		parts = append(parts, opts.MapArgs)
	case !opts.DefaultMap:
		parts = append(parts, "-map 0")
	}
	if opts.StripMetadata {
		parts = append(parts, "-map_metadata -1")
	}

	target := preset.DefaultCodec
	switch {
	case opts.Codec != "":
		target = opts.Codec
		args, err := presets.EncoderArgs(target)
		if err != nil {
			return "", "", err
		}
		parts = append(parts, args)
	case opts.Override != "":
		parts = append(parts, opts.Override)
	default:
		args, err := presets.EncoderArgs(target)
		if err != nil {
			return "", "", err
		}
		parts = append(parts, args)
	}
	return strings.Join(parts, " "), target, nil
}

// SplitArgs splits an argument string on whitespace, dropping empty tokens.
// Quoting is not interpreted.
func SplitArgs(s string) []string {
	return strings.Fields(s)
}

// Command returns the full argv for encoding src to dst with bin.
func Command(bin, src string, args []string, dst string) []string {
	argv := make([]string, 0, len(args)+4)
	argv = append(argv, bin, "-i", src)
	argv = append(argv, args...)
	return append(argv, dst)
}
