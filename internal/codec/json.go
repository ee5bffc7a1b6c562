package codec

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/jsonc"
)

// JSON writes pretty-printed JSON with two-space indentation.
//
// HTML characters are not escaped so baselines stay readable. Decoding
// accepts comments and trailing commas, which lets reviewers annotate
// checked-in baselines without breaking them.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Extension returns "json".
func (JSON) Extension() string { return "json" }

// Encode writes v as indented JSON followed by a newline.
func (JSON) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads JSON into v. Comments and trailing commas are stripped
// first, so annotated baselines still decode.
func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(jsonc.ToJSON(data), v)
}
