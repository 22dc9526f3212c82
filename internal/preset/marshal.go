package preset

// Params serialize as a mapping of flag to value in both formats. Neither
// yaml.v3 maps nor encoding/json maps keep insertion order, so both codecs
// walk the mapping by hand.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML emits p as a YAML mapping in declaration order.
func (p Params) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Flag},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Value},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a YAML mapping of scalar values, keeping its order.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*p = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: encoder_parameters must be a mapping", value.Line)
	}
	out := make(Params, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: encoder parameter must map a flag to a scalar", k.Line)
		}
		val := v.Value
		if v.Tag == "!!null" {
			val = ""
		}
		out = append(out, Param{Flag: k.Value, Value: val})
	}
	*p = out
	return nil
}

// MarshalJSON emits p as a JSON object in declaration order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Flag)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of scalar values, keeping its order.
// Numbers and booleans are kept as their literal text.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("encoder_parameters must be an object")
	}

	var out Params
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		flag, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected encoder parameter key %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		val, err := scalarText(tok)
		if err != nil {
			return fmt.Errorf("encoder parameter %q: %w", flag, err)
		}
		out = append(out, Param{Flag: flag, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

func scalarText(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	}
	return "", errors.New("value must be a scalar")
}
