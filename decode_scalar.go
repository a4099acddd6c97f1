package packer

import (
	"strings"
	"unicode/utf8"
)

// decodeText reads n UTF-8 bytes and returns them as Text. By default,
// malformed input fails the decode. When AllowMalformedUTF8 is set,
// invalid byte sequences are replaced with U+FFFD rather than failing
// or passed through verbatim — the returned Text is always valid
// UTF-8, matching how a lossy decode is expected to behave. Unlike
// Bytes and TypedArray, Text always copies: a Go string conversion
// from a byte slice can't alias it safely.
func (d *Decoder) decodeText(n int) (Value, error) {
	b, err := d.require(n)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(b) {
		return Text(b), nil
	}
	if !d.cfg.AllowMalformedUTF8 {
		return nil, invalidExtPayload(d.pos-n, 0, "string payload is not valid UTF-8")
	}
	return Text(strings.ToValidUTF8(string(b), "�")), nil
}

// decodeBytes reads n opaque bytes and returns them as Bytes, aliasing
// the Decoder's input buffer.
func (d *Decoder) decodeBytes(n int) (Value, error) {
	b, err := d.require(n)
	if err != nil {
		return nil, err
	}
	return Bytes(b), nil
}
