package packer

import "math"

// tryPromoteNumericList implements the numeric-list promotion heuristic
// (spec §4.2, the "key adaptive heuristic"): a generic ordered sequence
// of integers, floats, or booleans is re-encoded as a typed array, a
// bit-packed bool list, or — for small non-negative integer lists — an
// even more compact opaque-bytes (bin family) blob, whenever doing so is
// both legal (length threshold, interop mode) and lossless.
//
// Returns handled=true when the promoted form has already been written
// to the buffer; the caller must not also encode the original list.
func (e *Encoder) tryPromoteNumericList(v List) (handled bool, err error) {
	if len(v) < e.cfg.NumericListPromotionMinLength {
		return false, nil
	}

	allInt, allFloat, allBool := true, true, true
	for _, item := range v {
		switch item.(type) {
		case Int:
			allFloat, allBool = false, false
		case Float:
			allInt, allBool = false, false
		case Bool:
			allInt, allFloat = false, false
		default:
			allInt, allFloat, allBool = false, false, false
		}
		if !allInt && !allFloat && !allBool {
			return false, nil
		}
	}

	switch {
	case allBool:
		return true, e.promoteBoolList(v)
	case allInt:
		return e.promoteIntList(v)
	case allFloat:
		return true, e.promoteFloatList(v)
	default:
		return false, nil
	}
}

func (e *Encoder) promoteBoolList(v List) error {
	bits := NewBoolBitList(len(v))
	for i, item := range v {
		bits.Set(i, bool(item.(Bool)))
	}
	return e.encodeBoolBitList(bits)
}

// promoteIntList optimistically assumes every element is a non-negative
// byte value and streams it straight into a bin-family blob — cheaper
// than any typed-array ext since it needs no count field, no padding,
// and no ext-type byte. If an element breaks that assumption, the
// partial write is rolled back and the list is re-encoded as whichever
// typed-array kind its true min/max requires (spec §4.2: "opaque-bytes
// fast path").
func (e *Encoder) promoteIntList(v List) (bool, error) {
	if e.cfg.IntInteropMode == InteropRequireBigIntForWide {
		for _, item := range v {
			if !inSafeWindow(int64(item.(Int))) {
				// A caller that wants this element preserved must pass
				// an explicit BigInt — promotion to a native typed
				// array would silently narrow it. Skip promotion and
				// let the generic per-element path raise the proper
				// interop error.
				return false, nil
			}
		}
	}

	mark := e.mark()
	e.writeBinHeader(len(v))
	fellOut := -1
	for i, item := range v {
		n := int64(item.(Int))
		if n < 0 || n > 255 {
			fellOut = i
			break
		}
		e.writeByte(byte(n))
	}
	if fellOut < 0 {
		return true, nil
	}

	e.rollback(mark)
	minV, maxV := int64(item0(v)), int64(item0(v))
	for _, item := range v {
		n := int64(item.(Int))
		if n < minV {
			minV = n
		}
		if n > maxV {
			maxV = n
		}
	}
	kind := pickIntTypedArrayKind(minV, maxV)
	ta := &TypedArray{Kind: kind}
	switch kind {
	case KindInt8:
		ta.Int8 = make([]int8, len(v))
		for i, item := range v {
			ta.Int8[i] = int8(item.(Int))
		}
	case KindUint16:
		ta.Uint16 = make([]uint16, len(v))
		for i, item := range v {
			ta.Uint16[i] = uint16(item.(Int))
		}
	case KindInt16:
		ta.Int16 = make([]int16, len(v))
		for i, item := range v {
			ta.Int16[i] = int16(item.(Int))
		}
	case KindUint32:
		ta.Uint32 = make([]uint32, len(v))
		for i, item := range v {
			ta.Uint32[i] = uint32(item.(Int))
		}
	case KindInt32:
		ta.Int32 = make([]int32, len(v))
		for i, item := range v {
			ta.Int32[i] = int32(item.(Int))
		}
	case KindUint64:
		ta.Uint64 = make([]uint64, len(v))
		for i, item := range v {
			ta.Uint64[i] = uint64(item.(Int))
		}
	default:
		ta.Int64 = make([]int64, len(v))
		for i, item := range v {
			ta.Int64[i] = int64(item.(Int))
		}
	}
	return true, e.encodeTypedArray(ta)
}

func item0(v List) Int {
	return v[0].(Int)
}

// pickIntTypedArrayKind selects the narrowest typed-array kind covering
// [min,max], in the preference order spec §4.2 specifies.
func pickIntTypedArrayKind(min, max int64) TypedArrayKind {
	switch {
	case min >= -128 && max <= 127:
		return KindInt8
	case min >= 0 && max <= 65535:
		return KindUint16
	case min >= -32768 && max <= 32767:
		return KindInt16
	case min >= 0 && max <= 4294967295:
		return KindUint32
	case min >= -2147483648 && max <= 2147483647:
		return KindInt32
	case min >= 0:
		return KindUint64
	default:
		return KindInt64
	}
}

// promoteFloatList picks Float32List when every element round-trips
// exactly through float32 and preferFloat32 is set; otherwise Float64List.
func (e *Encoder) promoteFloatList(v List) error {
	useFloat32 := e.cfg.PreferFloat32
	if useFloat32 {
		for _, item := range v {
			f := float64(item.(Float))
			if math.IsNaN(f) || float64(float32(f)) != f {
				useFloat32 = false
				break
			}
		}
	}
	ta := &TypedArray{}
	if useFloat32 {
		ta.Kind = KindFloat32
		ta.Float32 = make([]float32, len(v))
		for i, item := range v {
			ta.Float32[i] = float32(item.(Float))
		}
	} else {
		ta.Kind = KindFloat64
		ta.Float64 = make([]float64, len(v))
		for i, item := range v {
			ta.Float64[i] = float64(item.(Float))
		}
	}
	return e.encodeTypedArray(ta)
}

// encodeTypedArray writes a typed-array ext: header, ext-type byte,
// u32 element count, zero padding, then raw host-endian payload bytes
// (spec §4.1 padding formula, §4.2).
//
// The header's own length field width affects how much padding is
// needed (padding aligns the data region, and the data region's start
// offset depends on how many header bytes precede it), so the size
// class is chosen by checking each width in turn for the one whose
// resulting total payload (count field + padding + data) it can itself
// express — spec §4.1: "the chosen ext family must also cover
// count-field-width (4) + padding + data_bytes".
func (e *Encoder) encodeTypedArray(ta *TypedArray) error {
	elemSize := typedArrayElementSize(ta.Kind)
	align := elementAlignment(elemSize)
	dataBytes := ta.Len() * elemSize

	class, pad := chooseTypedArraySizeClass(e.mark(), align, dataBytes)
	payloadLen := 4 + pad + dataBytes
	if uint32(payloadLen) > e.cfg.MaxExtPayloadBytes {
		return limitExceeded("maxExtPayloadBytes", int(e.cfg.MaxExtPayloadBytes), payloadLen)
	}

	switch class {
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
	e.writeByte(typedArrayExtByte(ta.Kind))
	e.writeUint32(uint32(ta.Len()))
	e.writeBytes(make([]byte, pad))

	data := e.reserve(dataBytes)
	writeTypedArrayPayload(data, ta)
	return nil
}

// chooseTypedArraySizeClass finds the smallest ext size class whose
// header length, once its own padding is accounted for, still yields a
// payload length that class can express. start is the buffer offset at
// which the ext prefix will be written, so the padding aligns the data
// region's offset from the start of the output buffer.
func chooseTypedArraySizeClass(start, align, dataBytes int) (sizeClass, int) {
	headerLen := func(lenFieldWidth int) int { return start + 1 + lenFieldWidth + 1 + 4 }

	h8 := headerLen(1)
	pad8 := typedArrayPadding(h8, align)
	if total := 4 + pad8 + dataBytes; total <= 0xFF {
		return size8, pad8
	}

	h16 := headerLen(2)
	pad16 := typedArrayPadding(h16, align)
	if total := 4 + pad16 + dataBytes; total <= 0xFFFF {
		return size16, pad16
	}

	h32 := headerLen(4)
	pad32 := typedArrayPadding(h32, align)
	return size32, pad32
}

// writeTypedArrayPayload writes ta's elements into data in host byte
// order. data must be exactly ta.Len() * elementSize bytes.
func writeTypedArrayPayload(data []byte, ta *TypedArray) {
	switch ta.Kind {
	case KindInt8:
		for i, v := range ta.Int8 {
			data[i] = byte(v)
		}
	case KindUint16:
		for i, v := range ta.Uint16 {
			nativeEndian.PutUint16(data[i*2:], v)
		}
	case KindInt16:
		for i, v := range ta.Int16 {
			nativeEndian.PutUint16(data[i*2:], uint16(v))
		}
	case KindUint32:
		for i, v := range ta.Uint32 {
			nativeEndian.PutUint32(data[i*4:], v)
		}
	case KindInt32:
		for i, v := range ta.Int32 {
			nativeEndian.PutUint32(data[i*4:], uint32(v))
		}
	case KindUint64:
		for i, v := range ta.Uint64 {
			nativeEndian.PutUint64(data[i*8:], v)
		}
	case KindInt64:
		for i, v := range ta.Int64 {
			nativeEndian.PutUint64(data[i*8:], uint64(v))
		}
	case KindFloat32:
		for i, v := range ta.Float32 {
			nativeEndian.PutUint32(data[i*4:], math.Float32bits(v))
		}
	case KindFloat64:
		for i, v := range ta.Float64 {
			nativeEndian.PutUint64(data[i*8:], math.Float64bits(v))
		}
	}
}
