package preset

import (
	"fmt"
	"strings"
)

// Param is one encoder flag and its value. An empty Value emits the flag alone.
type Param struct {
	Flag  string
	Value string
}

// Params keeps encoder parameters in declaration order.
type Params []Param

// Args renders p as "flag value" pairs joined by single spaces.
func (p Params) Args() string {
	parts := make([]string, 0, len(p)*2)
	for _, kv := range p {
		parts = append(parts, kv.Flag)
		if kv.Value != "" {
			parts = append(parts, kv.Value)
		}
	}
	return strings.Join(parts, " ")
}

// Get returns the value of flag and whether it is present.
func (p Params) Get(flag string) (string, bool) {
	for _, kv := range p {
		if kv.Flag == flag {
			return kv.Value, true
		}
	}
	return "", false
}

// Preset is the output container and encoder parameters for one codec.
type Preset struct {
	Container string `yaml:"container" json:"container"`
	Params    Params `yaml:"encoder_parameters" json:"encoder_parameters"`
}

// Config maps each configured codec to its preset. It is built once per run
// and not mutated afterwards.
type Config map[Codec]Preset

// Default returns the built-in presets.
func Default() Config {
	return Config{
		H264: {
			Container: ".mkv",
			Params:    Params{{"-c:v", "libx264"}, {"-crf", "30"}},
		},
		HEVC: {
			Container: ".mkv",
			Params:    Params{{"-c:v", "libx265"}, {"-crf", "28"}},
		},
		AV1: {
			Container: ".mkv",
			Params: Params{
				{"-c:v", "libaom-av1"},
				{"-crf", "30"},
				{"-b:v", "2000k"},
				{"-strict", "experimental"},
				{"-row-mt", "1"},
				{"-tile-columns", "4"},
				{"-tile-rows", "4"},
				{"-threads", "12"},
			},
		},
		VP9: {
			Container: ".webm",
			Params:    Params{{"-c:v", "libvpx-vp9"}, {"-crf", "30"}, {"-b:v", "2000k"}},
		},
	}
}

// Has reports whether c has a preset.
func (c Config) Has(codec Codec) bool {
	_, ok := c[codec]
	return ok
}

func (c Config) lookup(codec Codec) (Preset, error) {
	p, ok := c[codec]
	if !ok {
		return Preset{}, fmt.Errorf("no preset for %w %q", ErrUnknownCodec, codec)
	}
	return p, nil
}

// ContainerExt returns the output extension (with leading dot) for codec.
func (c Config) ContainerExt(codec Codec) (string, error) {
	p, err := c.lookup(codec)
	if err != nil {
		return "", err
	}
	return p.Container, nil
}

// EncoderArgs returns the preset parameters for codec as one argument string.
func (c Config) EncoderArgs(codec Codec) (string, error) {
	p, err := c.lookup(codec)
	if err != nil {
		return "", err
	}
	return p.Params.Args(), nil
}

// VideoEncoder returns the -c:v value of codec's preset, or "" when unset.
func (c Config) VideoEncoder(codec Codec) string {
	p, ok := c[codec]
	if !ok {
		return ""
	}
	v, _ := p.Params.Get("-c:v")
	return v
}

// Sorted returns the configured codecs in [Codecs] order.
func (c Config) Sorted() []Codec {
	out := make([]Codec, 0, len(c))
	for _, codec := range Codecs() {
		if c.Has(codec) {
			out = append(out, codec)
		}
	}
	return out
}

func (c Config) validate() error {
	for codec, p := range c {
		if !codec.Valid() {
			return fmt.Errorf("%w %q", ErrUnknownCodec, codec)
		}
		if !strings.HasPrefix(p.Container, ".") || len(p.Container) < 2 {
			return fmt.Errorf("preset %s: container %q must be an extension like .mkv", codec, p.Container)
		}
		for _, kv := range p.Params {
			if kv.Flag == "" {
				return fmt.Errorf("preset %s: empty encoder flag", codec)
			}
		}
	}
	return nil
}
