package codec

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAML writes block-style YAML with two-space indentation.
type YAML struct{}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

// Extension returns "yaml".
func (YAML) Extension() string { return "yaml" }

// Encode writes v as a single YAML document.
func (YAML) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads the first YAML document in data into v.
func (YAML) Decode(data []byte, v any) error {
	return yaml.NewDecoder(bytes.NewReader(data)).Decode(v)
}
