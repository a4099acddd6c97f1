package packer

import (
	"math/big"
	"net/url"
)

// decodeExt reads the ext-type byte and then bodyLen bytes of payload,
// dispatching on the ext-type byte. bodyLen is the payload length as
// carried by the wire framing (ext8/16/32's length field, or the fixed
// size implied by a fixext prefix) — it does not include the ext-type
// byte itself, matching writeExtHeader's convention on encode.
//
// Structured ext bodies (set, the nine typed-array kinds) consume a
// variable number of bytes while parsing rather than a byte count known
// up front; decodeExt checks afterward that exactly bodyLen bytes were
// consumed and raises trailingBytes if not, catching truncated or
// padded-wrong ext payloads that would otherwise silently desync the
// next read.
func (d *Decoder) decodeExt(bodyLen int) (Value, error) {
	extType, err := d.readByte()
	if err != nil {
		return nil, err
	}
	start := d.pos
	v, err := d.decodeExtBody(extType, bodyLen)
	if err != nil {
		return nil, err
	}
	if consumed := d.pos - start; consumed != bodyLen {
		return nil, trailingBytes(d.pos, bodyLen, consumed)
	}
	return v, nil
}

func (d *Decoder) decodeExtBody(extType byte, bodyLen int) (Value, error) {
	if kind, ok := typedArrayKindForExtByte(extType); ok {
		return d.decodeTypedArray(kind, bodyLen)
	}

	switch extType {
	case extBigInt:
		return d.decodeBigInt(bodyLen, false)
	case extWideInt:
		return d.decodeBigInt(bodyLen, true)
	case extDuration:
		return d.decodeDuration()
	case extDateTime:
		return d.decodeDateTime()
	case extBoolList:
		return d.decodeBoolList(bodyLen)
	case extURI:
		return d.decodeURI(bodyLen)
	case extSet:
		return d.decodeSet(bodyLen)
	default:
		body, err := d.require(bodyLen)
		if err != nil {
			return nil, err
		}
		return ExtValue{Type: extType, Data: append([]byte(nil), body...)}, nil
	}
}

// decodeBigInt reads a sign byte and big-endian minimal magnitude bytes
// (spec §3 invariant 5). wide is true for the wideInt ext type, whose
// magnitude is coerced through the smart integer rule instead of always
// surfacing as BigInt.
func (d *Decoder) decodeBigInt(bodyLen int, wide bool) (Value, error) {
	if bodyLen < 1 {
		return nil, invalidExtPayload(d.pos, extBigInt, "bigInt/wideInt payload missing sign byte")
	}
	sign, err := d.readByte()
	if err != nil {
		return nil, err
	}
	mag, err := d.require(bodyLen - 1)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(mag)
	switch sign {
	case 0x00:
	case 0x01:
		n.Neg(n)
	default:
		return nil, invalidExtPayload(d.pos, extBigInt, "sign byte must be 0x00 or 0x01")
	}
	if !wide {
		return BigInt{V: n}, nil
	}
	return coerceWideBigInt(d.rt, d.cfg.IntInteropMode, n), nil
}

func (d *Decoder) decodeDuration() (Value, error) {
	v, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	return Duration(int64(v)), nil
}

func (d *Decoder) decodeDateTime() (Value, error) {
	utcByte, err := d.readByte()
	if err != nil {
		return nil, err
	}
	micros, err := d.readUint64()
	if err != nil {
		return nil, err
	}
	return DateTime{Micros: int64(micros), UTC: utcByte != 0}, nil
}

// decodeBoolList reads the boolList ext: a u32 logical count followed
// by ceil(count/8) packed bytes.
func (d *Decoder) decodeBoolList(bodyLen int) (Value, error) {
	if bodyLen < 4 {
		return nil, invalidExtPayload(d.pos, extBoolList, "boolList payload missing count field")
	}
	count, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	packed, err := d.require(bodyLen - 4)
	if err != nil {
		return nil, err
	}
	if want := (int(count) + 7) / 8; want != len(packed) {
		return nil, invalidExtPayload(d.pos, extBoolList, "packed byte count does not match logical length")
	}
	return FromPacked(append([]byte(nil), packed...), int(count)), nil
}

// decodeURI reads bodyLen bytes of URI text and parses it, failing the
// decode if it isn't well-formed (spec §4.3 ext reading table).
func (d *Decoder) decodeURI(bodyLen int) (Value, error) {
	b, err := d.require(bodyLen)
	if err != nil {
		return nil, err
	}
	s := string(b)
	if _, err := url.Parse(s); err != nil {
		return nil, invalidExtPayload(d.pos, extURI, "uri is not well-formed: "+err.Error())
	}
	return URI(s), nil
}
