package packer

import "encoding/binary"

// Encoder packs Values into the wire format defined in wire.go. An
// Encoder owns a growable byte buffer and is not safe for concurrent
// use; two callers that need to encode concurrently must use two
// Encoders (spec §5).
type Encoder struct {
	buf     []byte
	cfg     Config
	rt      NumericRuntime
	depth   int
}

// NewEncoder builds an Encoder. A nil-valued Config argument (pass
// DefaultConfig() explicitly, or use NewEncoder(Config{}) only if every
// field's zero value is intentional) is not accepted — callers always
// supply a concrete Config, typically DefaultConfig().
func NewEncoder(cfg Config) *Encoder {
	e := &Encoder{rt: detectNumericRuntime()}
	e.Reset(cfg)
	return e
}

// Reset clears the write offset and, since cfg is always supplied,
// rebuilds the encoder's configuration. When the existing buffer's
// capacity is at least cfg.InitialCapacity its backing array is kept and
// only its logical length is truncated to zero; otherwise it is replaced
// by a new buffer of that capacity (spec §4.2 "reset").
func (e *Encoder) Reset(cfg Config) {
	e.cfg = cfg
	e.depth = 0
	if cap(e.buf) < cfg.InitialCapacity {
		e.buf = make([]byte, 0, cfg.InitialCapacity)
	} else {
		e.buf = e.buf[:0]
	}
}

// Pack encodes v from a clean offset-zero state and returns the
// resulting bytes. When trim is false the returned slice aliases the
// Encoder's internal buffer and is only valid until the next Pack/Reset
// call; when trim is true the returned slice is a fresh, exact-length
// copy that remains valid indefinitely (spec §4.2, §5, §9 "trim on
// finish").
func (e *Encoder) Pack(v Value) ([]byte, error) {
	return e.pack(v, false)
}

// PackTrimmed is Pack with trim forced to true.
func (e *Encoder) PackTrimmed(v Value) ([]byte, error) {
	return e.pack(v, true)
}

func (e *Encoder) pack(v Value, trim bool) ([]byte, error) {
	e.buf = e.buf[:0]
	e.depth = 0
	if err := e.encodeValue(v); err != nil {
		return nil, err
	}
	if trim {
		out := make([]byte, len(e.buf))
		copy(out, e.buf)
		return out, nil
	}
	return e.buf, nil
}

// mark returns the current write offset, for later rollback.
func (e *Encoder) mark() int {
	return len(e.buf)
}

// rollback truncates the buffer back to a previously recorded mark,
// discarding everything written since — the only transition out of the
// encoder's "Writing" state into "Rollback" that spec §4.2's state
// machine describes (reached from the string ASCII fast path and the
// numeric-list opaque-bytes fast path).
func (e *Encoder) rollback(mark int) {
	e.buf = e.buf[:mark]
}

func (e *Encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *Encoder) writeBytes(p []byte) {
	e.buf = append(e.buf, p...)
}

func (e *Encoder) writeUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// reserve grows the buffer by n zero bytes and returns a slice over
// that region so callers can fill it in place (used for native-endian
// typed-array payload writes and for ext-length patch-backs).
func (e *Encoder) reserve(n int) []byte {
	start := len(e.buf)
	e.buf = append(e.buf, make([]byte, n)...)
	return e.buf[start : start+n]
}

// encodeValue is the single dispatch switch spec §4.2 calls for: one
// arm per runtime kind, typed-array kinds tested before the generic
// ordered-sequence case (List), since a typed array is-a sequence but
// must not fall into the generic List/numeric-promotion path.
func (e *Encoder) encodeValue(v Value) error {
	switch val := v.(type) {
	case nil:
		e.writeByte(prefixNil)
		return nil
	case Null:
		e.writeByte(prefixNil)
		return nil
	case Bool:
		return e.encodeBool(val)
	case Int:
		return e.encodeInt(int64(val))
	case Float:
		return e.encodeFloat(val)
	case Text:
		return e.encodeText(val)
	case Bytes:
		return e.encodeBytes(val)
	case *TypedArray:
		return e.encodeTypedArray(val)
	case *BoolBitList:
		return e.encodeBoolBitList(val)
	case DateTime:
		return e.encodeDateTime(val)
	case Duration:
		return e.encodeDuration(val)
	case BigInt:
		return e.encodeBigIntValue(val)
	case URI:
		return e.encodeURI(val)
	case Set:
		return e.encodeSet(val)
	case *Map:
		return e.encodeMap(val)
	case List:
		return e.encodeList(val)
	case ExtValue:
		return e.encodeExtValue(val)
	default:
		if mapper, ok := v.(ModelMapper); ok {
			return e.encodeMap(mapper.ToValueMap())
		}
		return unsupportedType(v)
	}
}

func (e *Encoder) encodeBool(v Bool) error {
	if v {
		e.writeByte(prefixTrue)
	} else {
		e.writeByte(prefixFalse)
	}
	return nil
}

func (e *Encoder) enterContainer() error {
	e.depth++
	if e.depth > e.cfg.MaxDepth {
		e.depth--
		return depthExceeded(e.cfg.MaxDepth, -1)
	}
	return nil
}

func (e *Encoder) exitContainer() {
	e.depth--
}
