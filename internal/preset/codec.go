package preset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCodec is wrapped by every error caused by a codec identifier
// outside the closed set.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec identifies a transcode target.
type Codec string

const (
	H264 Codec = "h264"
	HEVC Codec = "hevc"
	AV1  Codec = "av1"
	VP9  Codec = "vp9"
)

// DefaultCodec is the target when no selector or encoder override is given.
const DefaultCodec = HEVC

// Codecs returns every known codec in a stable order.
func Codecs() []Codec {
	return []Codec{H264, HEVC, AV1, VP9}
}

// ParseCodec maps s (case-insensitive) to a Codec.
func ParseCodec(s string) (Codec, error) {
	c := Codec(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownCodec, s, codecList())
}

// Valid reports whether c belongs to the closed set.
func (c Codec) Valid() bool {
	switch c {
	case H264, HEVC, AV1, VP9:
		return true
	}
	return false
}

func (c Codec) String() string { return string(c) }

func codecList() string {
	names := make([]string, 0, 4)
	for _, c := range Codecs() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
