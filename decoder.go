package packer

import "math"

// Decoder unpacks Values from a byte slice encoded in the wire format
// defined in wire.go. A Decoder does not copy its input; Bytes and
// TypedArray values it returns may be zero-copy views over that input
// and are only valid as long as the input buffer is not reused or
// mutated (spec §4.3, §5). A Decoder is not safe for concurrent use.
type Decoder struct {
	buf   []byte
	pos   int
	cfg   Config
	rt    NumericRuntime
	depth int
}

// NewDecoder builds a Decoder over data. As with NewEncoder, cfg is
// always supplied explicitly.
func NewDecoder(data []byte, cfg Config) *Decoder {
	d := &Decoder{rt: detectNumericRuntime()}
	d.Reset(data, cfg)
	return d
}

// Reset rebinds the Decoder to a new input buffer and configuration,
// starting from offset zero.
func (d *Decoder) Reset(data []byte, cfg Config) {
	d.buf = data
	d.pos = 0
	d.cfg = cfg
	d.depth = 0
}

// Offset returns the current read position.
func (d *Decoder) Offset() int {
	return d.pos
}

// IsDone reports whether every byte of the input has been consumed.
func (d *Decoder) IsDone() bool {
	return d.pos >= len(d.buf)
}

// Unpack decodes exactly one Value starting at the current offset and
// advances past it. Callers that expect the buffer to hold a single
// value (the common case, wrapped by the package-level Unpack
// function) should check IsDone afterward and raise a trailing-bytes
// error if it's false.
func (d *Decoder) Unpack() (Value, error) {
	return d.decodeValue()
}

// SkipValue advances past one encoded value without materializing it:
// it reads only the prefix byte and whatever length fields the prefix
// implies, then moves the read position past the payload in one jump
// rather than decoding it. Arrays and maps, whose framing carries only
// a count, are skipped element by element. Used by callers that only need to validate
// structure or locate a later value without paying the allocation cost
// of building strings, byte copies, or containers for values they are
// going to discard anyway.
func (d *Decoder) SkipValue() error {
	start := d.pos
	prefix, err := d.readByte()
	if err != nil {
		return err
	}

	switch {
	case prefix <= prefixPosFixIntMax:
		return nil
	case prefix >= prefixFixMapMin && prefix <= prefixFixMapMax:
		return d.skipMap(int(prefix & 0x0F))
	case prefix >= prefixFixArrayMin && prefix <= prefixFixArrayMax:
		return d.skipList(int(prefix & 0x0F))
	case prefix >= prefixFixStrMin && prefix <= prefixFixStrMax:
		return d.skipN(int(prefix & 0x1F))
	case prefix >= prefixNegFixIntMin:
		return nil
	}

	switch prefix {
	case prefixNil, prefixFalse, prefixTrue:
		return nil

	case prefixBin8, prefixStr8:
		n, err := d.readByte()
		if err != nil {
			return err
		}
		return d.skipN(int(n))
	case prefixBin16, prefixStr16:
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		return d.skipN(int(n))
	case prefixBin32, prefixStr32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		return d.skipN(int(n))

	case prefixExt8:
		n, err := d.readByte()
		if err != nil {
			return err
		}
		return d.skipExt(int(n))
	case prefixExt16:
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		return d.skipExt(int(n))
	case prefixExt32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		return d.skipExt(int(n))

	case prefixFloat32, prefixUint32, prefixInt32:
		_, err := d.readUint32()
		return err
	case prefixFloat64, prefixUint64, prefixInt64:
		_, err := d.readUint64()
		return err

	case prefixUint8, prefixInt8:
		_, err := d.readByte()
		return err
	case prefixUint16, prefixInt16:
		_, err := d.readUint16()
		return err

	case prefixFixExt1:
		return d.skipExt(1)
	case prefixFixExt2:
		return d.skipExt(2)
	case prefixFixExt4:
		return d.skipExt(4)
	case prefixFixExt8:
		return d.skipExt(8)
	case prefixFixExt16:
		return d.skipExt(16)

	case prefixArray16:
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		return d.skipList(int(n))
	case prefixArray32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		return d.skipList(int(n))

	case prefixMap16:
		n, err := d.readUint16()
		if err != nil {
			return err
		}
		return d.skipMap(int(n))
	case prefixMap32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		return d.skipMap(int(n))
	}

	return unknownPrefix(start, prefix)
}

// skipN advances the read position by n bytes without copying them,
// bounds-checked the same way require is.
func (d *Decoder) skipN(n int) error {
	if d.pos+n > len(d.buf) {
		return truncated(d.pos, n, len(d.buf)-d.pos)
	}
	d.pos += n
	return nil
}

// skipExt skips an ext-type byte followed by bodyLen payload bytes as
// one opaque range. This works for every ext kind, including set and
// the typed-array kinds, because the wire framing always carries the
// ext body's total byte length up front — there is never a need to
// walk a set's elements individually just to skip past them.
func (d *Decoder) skipExt(bodyLen int) error {
	if err := d.skipN(1); err != nil {
		return err
	}
	return d.skipN(bodyLen)
}

// skipList skips n array elements by recursing into SkipValue for
// each, since array framing carries only an element count, not an
// overall byte length.
func (d *Decoder) skipList(n int) error {
	if uint32(n) > d.cfg.MaxArrayLength {
		return limitExceeded("maxArrayLength", int(d.cfg.MaxArrayLength), n)
	}
	if err := d.enterContainer(); err != nil {
		return err
	}
	defer d.exitContainer()
	for i := 0; i < n; i++ {
		if err := d.SkipValue(); err != nil {
			return err
		}
	}
	return nil
}

// skipMap skips n key/value pairs, same reasoning as skipList.
func (d *Decoder) skipMap(n int) error {
	if uint32(n) > d.cfg.MaxMapLength {
		return limitExceeded("maxMapLength", int(d.cfg.MaxMapLength), n)
	}
	if err := d.enterContainer(); err != nil {
		return err
	}
	defer d.exitContainer()
	for i := 0; i < n; i++ {
		if err := d.SkipValue(); err != nil {
			return err
		}
		if err := d.SkipValue(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) require(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, truncated(d.pos, n, len(d.buf)-d.pos)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, truncated(d.pos, 1, 0)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.require(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	b, err := d.require(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	b, err := d.require(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func (d *Decoder) enterContainer() error {
	d.depth++
	if d.depth > d.cfg.MaxDepth {
		d.depth--
		return depthExceeded(d.cfg.MaxDepth, d.pos)
	}
	return nil
}

func (d *Decoder) exitContainer() {
	d.depth--
}

// decodeValue is the prefix-loop dispatch spec §4.3 describes: read one
// prefix byte and branch into the family it names.
func (d *Decoder) decodeValue() (Value, error) {
	start := d.pos
	prefix, err := d.readByte()
	if err != nil {
		return nil, err
	}

	switch {
	case prefix <= prefixPosFixIntMax:
		return Int(int64(prefix)), nil
	case prefix >= prefixFixMapMin && prefix <= prefixFixMapMax:
		return d.decodeMap(int(prefix & 0x0F))
	case prefix >= prefixFixArrayMin && prefix <= prefixFixArrayMax:
		return d.decodeList(int(prefix & 0x0F))
	case prefix >= prefixFixStrMin && prefix <= prefixFixStrMax:
		return d.decodeText(int(prefix & 0x1F))
	case prefix >= prefixNegFixIntMin:
		return Int(int64(int8(prefix))), nil
	}

	switch prefix {
	case prefixNil:
		return Null{}, nil
	case prefixFalse:
		return Bool(false), nil
	case prefixTrue:
		return Bool(true), nil

	case prefixBin8:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return d.decodeBytes(int(n))
	case prefixBin16:
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeBytes(int(n))
	case prefixBin32:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeBytes(int(n))

	case prefixExt8:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return d.decodeExt(int(n))
	case prefixExt16:
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeExt(int(n))
	case prefixExt32:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeExt(int(n))

	case prefixFloat32:
		b, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(b)), nil
	case prefixFloat64:
		b, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(b)), nil

	case prefixUint8:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return Int(int64(b)), nil
	case prefixUint16:
		b, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return Int(int64(b)), nil
	case prefixUint32:
		b, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return Int(int64(b)), nil
	case prefixUint64:
		b, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return coerceWideUint64(d.rt, d.cfg.IntInteropMode, b), nil

	case prefixInt8:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return Int(int64(int8(b))), nil
	case prefixInt16:
		b, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return Int(int64(int16(b))), nil
	case prefixInt32:
		b, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return Int(int64(int32(b))), nil
	case prefixInt64:
		b, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return coerceWideInt64(d.rt, d.cfg.IntInteropMode, int64(b)), nil

	case prefixFixExt1:
		return d.decodeExt(1)
	case prefixFixExt2:
		return d.decodeExt(2)
	case prefixFixExt4:
		return d.decodeExt(4)
	case prefixFixExt8:
		return d.decodeExt(8)
	case prefixFixExt16:
		return d.decodeExt(16)

	case prefixStr8:
		n, err := d.readByte()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))
	case prefixStr16:
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))
	case prefixStr32:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeText(int(n))

	case prefixArray16:
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeList(int(n))
	case prefixArray32:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeList(int(n))

	case prefixMap16:
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return d.decodeMap(int(n))
	case prefixMap32:
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return d.decodeMap(int(n))
	}

	return nil, unknownPrefix(start, prefix)
}
