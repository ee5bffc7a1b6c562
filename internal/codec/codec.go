// Package codec provides the pluggable serializers used for structured
// artifacts.
//
// A Codec translates a Go value to and from a deterministic, human-diffable
// byte representation and names the file extension its artifacts carry.
// Codecs are stateless; one instance may serve any number of artifacts.
//
// Selection happens once, when an Expect is constructed. Call sites never
// branch on the codec in use.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Codec encodes and decodes structured artifact values.
type Codec interface {
	// Name identifies the codec in configuration ("json", "yaml", "cue").
	Name() string

	// Extension is the file extension of artifacts written by this codec.
	Extension() string

	// Encode serializes v. Output for equal values is byte-identical.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into the value pointed to by v.
	Decode(data []byte, v any) error
}

// ErrUnknownCodec is returned by Lookup for unregistered names.
var ErrUnknownCodec = errors.New("unknown codec")

// Default is the codec used when nothing else is configured.
var Default Codec = JSON{}

var registry = map[string]Codec{}

func init() {
	for _, c := range []Codec{JSON{}, YAML{}, CUE{}} {
		registry[c.Name()] = c
		registry[c.Extension()] = c
	}
	registry["yml"] = YAML{}
}

// Lookup resolves a codec by name or file extension, case-insensitively.
func Lookup(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range registry {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return names
}

// EncodeString renders v through c for display, without a trailing newline.
func EncodeString(c Codec, v any) (string, error) {
	data, err := c.Encode(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
