// Package jsonutil wraps sonic so the rest of the module shares a single,
// fast JSON implementation with the standard library call shapes.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

// Marshal serialises v using the sonic default configuration.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent serialises v with the given prefix and indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses data into v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Encode streams v as JSON into w.
func Encode(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

// Decode reads a JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return sonic.ConfigDefault.NewDecoder(r).Decode(v)
}
