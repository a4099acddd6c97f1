package packer

import (
	"math"
	"math/big"
	"unicode/utf8"
)

// encodeInt picks the tightest integer family per spec §4.2: positive
// values from {posfixint, uint8, uint16, uint32, uint64}, negative
// values from {negfixint (>= -32), int8, int16, int32, int64}.
func (e *Encoder) encodeInt(v int64) error {
	if e.cfg.IntInteropMode != InteropOff && !inSafeWindow(v) {
		switch e.cfg.IntInteropMode {
		case InteropRequireBigIntForWide:
			return newEncodeErr(KindLimitExceeded,
				"host integer outside the safe window requires an explicit BigInt under requireBigIntForWide",
				map[string]any{"limit": "intInteropMode", "value": v})
		case InteropPromoteWideToBigInt:
			return e.encodeBigInt(BigInt{V: big.NewInt(v)}, extBigInt)
		}
	}

	if v >= 0 {
		switch {
		case v <= 0x7F:
			e.writeByte(byte(v))
		case v <= 0xFF:
			e.writeByte(prefixUint8)
			e.writeByte(byte(v))
		case v <= 0xFFFF:
			e.writeByte(prefixUint16)
			e.writeUint16(uint16(v))
		case v <= 0xFFFFFFFF:
			e.writeByte(prefixUint32)
			e.writeUint32(uint32(v))
		default:
			e.writeByte(prefixUint64)
			e.writeUint64(uint64(v))
		}
		return nil
	}

	switch {
	case v >= -32:
		e.writeByte(byte(256 + v))
	case v >= -128:
		e.writeByte(prefixInt8)
		e.writeByte(byte(v))
	case v >= -32768:
		e.writeByte(prefixInt16)
		e.writeUint16(uint16(v))
	case v >= -2147483648:
		e.writeByte(prefixInt32)
		e.writeUint32(uint32(v))
	default:
		e.writeByte(prefixInt64)
		e.writeUint64(uint64(v))
	}
	return nil
}

// encodeUint64Wide encodes a full-width unsigned 64-bit value as a
// uint64 scalar. Nothing in the package calls it; BigInt values, wideInt
// included, are written by encodeBigInt.
func (e *Encoder) encodeUint64Wide(v uint64) {
	e.writeByte(prefixUint64)
	e.writeUint64(v)
}

// encodeFloat applies the float32-preference rule: emit float32 only
// when preferFloat32 is set, the value is not NaN, and its float32
// round-trip equals itself exactly; NaN always goes to float64 so its
// payload bits survive the round trip (spec §4.2).
func (e *Encoder) encodeFloat(v Float) error {
	f64 := float64(v)
	if e.cfg.PreferFloat32 && !math.IsNaN(f64) {
		f32 := float32(f64)
		if float64(f32) == f64 {
			e.writeByte(prefixFloat32)
			e.writeUint32(math.Float32bits(f32))
			return nil
		}
	}
	e.writeByte(prefixFloat64)
	e.writeUint64(math.Float64bits(f64))
	return nil
}

// encodeText implements the ASCII fast path with rollback (spec §4.2):
// reserve a header sized as if the string's length in bytes equals its
// UTF-8 byte length under the optimistic assumption that every code
// unit is ASCII, scan-and-copy; on the first non-ASCII byte, rewind and
// re-encode with a real UTF-8 byte count and header.
func (e *Encoder) encodeText(v Text) error {
	s := string(v)
	n := len(s) // byte length; for pure-ASCII input this equals the final UTF-8 byte length
	if uint32(len(s)) > e.cfg.MaxStringUTF8Bytes {
		return limitExceeded("maxStringUtf8Bytes", int(e.cfg.MaxStringUTF8Bytes), len(s))
	}

	mark := e.mark()
	e.writeStringHeader(n)

	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			// Non-ASCII byte: bail out of the optimistic copy and
			// re-encode from scratch through the validating path.
			e.rollback(mark)
			return e.encodeTextUTF8(s)
		}
		e.writeByte(s[i])
	}
	return nil
}

// encodeTextUTF8 writes a string whose byte length is already known to
// be n = len(s), selecting the header size class from that byte length
// (spec §4.2: "re-select the header size class by the UTF-8 byte
// length").
func (e *Encoder) encodeTextUTF8(s string) error {
	if !utf8.ValidString(s) && !e.cfg.AllowMalformedUTF8 {
		return newEncodeErr(KindUnsupportedType, "text is not valid UTF-8", nil)
	}
	e.writeStringHeader(len(s))
	e.writeBytes([]byte(s))
	return nil
}

// writeStringHeader writes the fixstr/str8/str16/str32 prefix and
// length field for a string of n UTF-8 bytes.
func (e *Encoder) writeStringHeader(n int) {
	switch sizeClassForLength(n, 31) {
	case sizeFix:
		e.writeByte(prefixFixStrMin | byte(n))
	case size8:
		e.writeByte(prefixStr8)
		e.writeByte(byte(n))
	case size16:
		e.writeByte(prefixStr16)
		e.writeUint16(uint16(n))
	default:
		e.writeByte(prefixStr32)
		e.writeUint32(uint32(n))
	}
}

// encodeBytes writes a length-prefixed opaque blob via the bin family.
func (e *Encoder) encodeBytes(v Bytes) error {
	if uint32(len(v)) > e.cfg.MaxBinaryBytes {
		return limitExceeded("maxBinaryBytes", int(e.cfg.MaxBinaryBytes), len(v))
	}
	e.writeBinHeader(len(v))
	e.writeBytes(v)
	return nil
}

func (e *Encoder) writeBinHeader(n int) {
	switch sizeClassForLength(n, 0) {
	case size8:
		e.writeByte(prefixBin8)
		e.writeByte(byte(n))
	case size16:
		e.writeByte(prefixBin16)
		e.writeUint16(uint16(n))
	default:
		e.writeByte(prefixBin32)
		e.writeUint32(uint32(n))
	}
}
