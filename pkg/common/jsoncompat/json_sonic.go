//go:build !stdjson

package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

// std compatible config: sorted map keys and HTML escaping like encoding/json
var api = sonic.ConfigStd

// Marshal proxies to sonic unless built with the stdjson tag.
func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// Unmarshal proxies to sonic unless built with the stdjson tag.
func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return api.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return api.NewDecoder(r) }
