package preset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format names a persisted preset encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Marshal encodes c in format f. Codecs are emitted in lexical order.
func Marshal(c Config, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(map[Codec]Preset(c))
	case FormatJSON:
		data, err := json.MarshalIndent(map[Codec]Preset(c), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported preset format %q", f)
}

// Unmarshal decodes presets in format f. Unknown codec identifiers and
// malformed presets are rejected here rather than at first use.
func Unmarshal(data []byte, f Format) (Config, error) {
	raw := map[string]Preset{}
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported preset format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s presets: %w", f, err)
	}

	cfg := make(Config, len(raw))
	for name, p := range raw {
		codec, err := ParseCodec(name)
		if err != nil {
			return nil, err
		}
		if _, dup := cfg[codec]; dup {
			return nil, fmt.Errorf("duplicate preset for %s", codec)
		}
		cfg[codec] = p
	}
	if len(cfg) == 0 {
		return nil, fmt.Errorf("no presets in %s input", f)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads presets from path.
func Load(path string, f Format) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	cfg, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Dump writes c to w in format f.
func Dump(w io.Writer, c Config, f Format) error {
	data, err := Marshal(c, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
