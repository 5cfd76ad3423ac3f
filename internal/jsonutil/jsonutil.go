// Package jsonutil wraps the sonic codec behind the encoding/json call shapes
// used across the handlers.
package jsonutil

import "github.com/bytedance/sonic"

var api = sonic.ConfigStd

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}
