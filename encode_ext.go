package packer

import (
	"math/big"
	"net/url"
)

// writeExtHeader writes the ext8/16/32 prefix, length field (payloadLen
// counts the ext-type byte's *payload*, not the ext-type byte itself),
// and the ext-type byte, for an ext value whose payload length is known
// before any of the payload is written.
func (e *Encoder) writeExtHeader(payloadLen int, extType byte) error {
	if uint32(payloadLen) > e.cfg.MaxExtPayloadBytes {
		return limitExceeded("maxExtPayloadBytes", int(e.cfg.MaxExtPayloadBytes), payloadLen)
	}
	switch extSizeClassForLength(payloadLen) {
	case size8:
		e.writeByte(prefixExt8)
		e.writeByte(byte(payloadLen))
	case size16:
		e.writeByte(prefixExt16)
		e.writeUint16(uint16(payloadLen))
	default:
		e.writeByte(prefixExt32)
		e.writeUint32(uint32(payloadLen))
	}
	e.writeByte(extType)
	return nil
}

// encodeExtWithPatchedLength is used when the payload length can't be
// known until the body has been written (spec §4.2: Set encoding). It
// always frames with ext32 so the 4-byte length field can be patched in
// place afterward without shifting already-written bytes.
func (e *Encoder) encodeExtWithPatchedLength(extType byte, body func() error) error {
	e.writeByte(prefixExt32)
	lenField := e.reserve(4)
	e.writeByte(extType)
	bodyStart := e.mark()
	if err := body(); err != nil {
		return err
	}
	payloadLen := e.mark() - bodyStart
	if uint32(payloadLen) > e.cfg.MaxExtPayloadBytes {
		return limitExceeded("maxExtPayloadBytes", int(e.cfg.MaxExtPayloadBytes), payloadLen)
	}
	putUint32BE(lenField, uint32(payloadLen))
	return nil
}

func putUint32BE(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// encodeBigIntValue chooses between the bigInt and wideInt ext types for
// an explicit BigInt value (spec §4.4, §9 design note). Under
// InteropOff, a magnitude that fits int64 is tagged wideInt so a 64-bit
// decoder can coerce it to a host integer cheaply, without arbitrary-
// precision arithmetic; a magnitude that doesn't fit int64 is genuinely
// wide and always goes through bigInt. Under either of the two
// safe-window interop modes, BigInt is explicit caller intent and
// always goes through bigInt, matching promoteWideToBigInt's documented
// wire shape exactly.
func (e *Encoder) encodeBigIntValue(v BigInt) error {
	if e.cfg.IntInteropMode == InteropOff && v.V != nil && v.V.IsInt64() {
		return e.encodeBigInt(v, extWideInt)
	}
	return e.encodeBigInt(v, extBigInt)
}

// encodeBigInt writes a sign byte followed by big-endian minimal
// magnitude bytes (spec §3 invariant 5, §4.2). extType lets the wideInt
// interop path reuse this body under a different ext-type byte.
func (e *Encoder) encodeBigInt(v BigInt, extType byte) error {
	n := v.V
	if n == nil {
		n = new(big.Int)
	}
	mag := n.Bytes() // big-endian, minimal, empty for zero
	if uint32(len(mag)) > e.cfg.MaxBigIntMagnitudeBytes {
		return limitExceeded("maxBigIntMagnitudeBytes", int(e.cfg.MaxBigIntMagnitudeBytes), len(mag))
	}
	if err := e.writeExtHeader(1+len(mag), extType); err != nil {
		return err
	}
	if n.Sign() < 0 {
		e.writeByte(0x01)
	} else {
		e.writeByte(0x00)
	}
	e.writeBytes(mag)
	return nil
}

// encodeDateTime writes the canonical ext-8 dateTime form (spec §4.1
// example f, §9 design note: the fixext-16 slot is never produced).
func (e *Encoder) encodeDateTime(v DateTime) error {
	if err := e.writeExtHeader(9, extDateTime); err != nil {
		return err
	}
	if v.UTC {
		e.writeByte(0x01)
	} else {
		e.writeByte(0x00)
	}
	e.writeUint64(uint64(v.Micros))
	return nil
}

// encodeDuration writes the 8-byte signed-microseconds duration ext.
func (e *Encoder) encodeDuration(v Duration) error {
	if err := e.writeExtHeader(8, extDuration); err != nil {
		return err
	}
	e.writeUint64(uint64(int64(v)))
	return nil
}

// encodeURI parses v to reject malformed URIs (spec §4.3 ext reading
// table: "invalid URIs fail") and writes the parsed form's normalized
// string as UTF-8 bytes under the uri ext.
func (e *Encoder) encodeURI(v URI) error {
	parsed, err := url.Parse(string(v))
	if err != nil {
		return newEncodeErr(KindUnsupportedType, "uri is not well-formed: "+err.Error(), nil)
	}
	raw := []byte(parsed.String())
	if uint32(len(raw)) > e.cfg.MaxURIUTF8Bytes {
		return limitExceeded("maxUriUtf8Bytes", int(e.cfg.MaxURIUTF8Bytes), len(raw))
	}
	if err := e.writeExtHeader(len(raw), extURI); err != nil {
		return err
	}
	e.writeBytes(raw)
	return nil
}

// encodeExtValue re-emits an opaque ext value exactly as decoded,
// preserving round-trip fidelity for ext types this codec doesn't
// interpret.
func (e *Encoder) encodeExtValue(v ExtValue) error {
	if err := e.writeExtHeader(len(v.Data), v.Type); err != nil {
		return err
	}
	e.writeBytes(v.Data)
	return nil
}

// encodeBoolBitList writes the boolList ext: a 4-byte count followed by
// ceil(count/8) packed bytes.
func (e *Encoder) encodeBoolBitList(v *BoolBitList) error {
	packed := v.AsBytes()
	if err := e.writeExtHeader(4+len(packed), extBoolList); err != nil {
		return err
	}
	e.writeUint32(uint32(v.Length()))
	e.writeBytes(packed)
	return nil
}
