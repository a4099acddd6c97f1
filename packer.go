package packer

import (
	"bytes"
	"encoding/json"
	"io"
)

// Pack encodes v into the wire format using cfg (DefaultConfig() is the
// usual choice). When trimOnFinish is true the returned slice is an
// owned, exact-length copy; when false it aliases an internal buffer
// that only this call guarantees is valid (spec §6, §9 "trim on
// finish"). This is the package-level convenience wrapper around a
// throwaway Encoder — callers that pack repeatedly should build an
// Encoder once and call Reset between calls instead.
func Pack(v Value, cfg Config, trimOnFinish bool) ([]byte, error) {
	enc := NewEncoder(cfg)
	if trimOnFinish {
		return enc.PackTrimmed(v)
	}
	return enc.Pack(v)
}

// Unpack decodes data into a Value tree using cfg. When fromJSON is
// true, data is treated as UTF-8 JSON text rather than this package's
// own wire format and is converted into the equivalent Value tree
// (spec §6 "External Interfaces"; the exact conversion rules are
// recorded in DESIGN.md). Otherwise data is decoded as one wire value
// and a trailing-bytes error is raised if any input remains unconsumed.
func Unpack(data []byte, cfg Config, fromJSON bool) (Value, error) {
	if fromJSON {
		return unpackJSON(data, cfg)
	}
	dec := NewDecoder(data, cfg)
	v, err := dec.Unpack()
	if err != nil {
		return nil, err
	}
	if !dec.IsDone() {
		return nil, trailingBytes(dec.Offset(), len(data), dec.Offset())
	}
	return v, nil
}

// unpackJSON converts UTF-8 JSON text directly into a Value tree:
// object -> *Map, array -> List, string -> Text, an integral number ->
// Int, any other number -> Float, true/false -> Bool, null -> Null.
// This is a compatibility shim with no bearing on this package's own
// wire format — it implies no canonicalization, determinism, or
// duplicate-key policy beyond whatever encoding/json's token decoder
// does.
func unpackJSON(data []byte, cfg Config) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec, 0, cfg.MaxDepth)
	if err != nil {
		return nil, newDecodeErr(KindInvalidExtPayload, err.Error(), -1, nil)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newDecodeErr(KindTrailingBytes, "trailing JSON content after top-level value", -1, nil)
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth, maxDepth int) (Value, error) {
	if depth > maxDepth {
		return nil, depthExceeded(maxDepth, -1)
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := &Map{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				m.Keys = append(m.Keys, Text(key))
				m.Values = append(m.Values, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			var out List
			for dec.More() {
				val, err := decodeJSONValue(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				out = append(out, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return out, nil
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case string:
		return Text(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, newDecodeErr(KindUnknownPrefix, "unrecognized JSON token", -1, nil)
}
