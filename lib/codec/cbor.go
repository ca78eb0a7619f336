// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// map keys sorted, integers in their smallest form, no
// indefinite-length items. Equal values always encode to equal bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields, so old
// daemons can read requests from newer CLIs.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Control messages only ever use string map keys. When decoding
		// into an any-typed target the decoder must pick a concrete map
		// type, and CBOR's own default, map[interface{}]interface{},
		// does not interoperate with encoding/json or with Go code
		// written against map[string]any. Struct decoding is not
		// affected by this option.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v as deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes the CBOR in data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder streams CBOR values to a writer. Aliased here so callers
// depend on lib/codec rather than on fxamacker/cbor.
type Encoder = cbor.Encoder

// Decoder streams CBOR values from a reader. Aliased here so callers
// depend on lib/codec rather than on fxamacker/cbor.
type Decoder = cbor.Decoder

// RawMessage holds an encoded CBOR value verbatim. It satisfies
// cbor.Marshaler and cbor.Unmarshaler, which lets envelope types defer
// decoding of a payload or embed bytes encoded elsewhere.
type RawMessage = cbor.RawMessage

// NewEncoder returns an Encoder writing deterministic CBOR to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a Decoder reading from r with garrison's decode
// settings.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// Diagnose renders data as CBOR diagnostic notation (RFC 8949 §8),
// the human-readable form used when inspecting control socket traffic.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
