package packer

import (
	"math"
	"unsafe"
)

// decodeTypedArray reads a typed-array ext body: a u32 element count,
// the zero padding the encoder inserted to align the data region, and
// the data itself. Unlike the length-prefixed scalar ext types, the
// padding amount isn't carried on the wire directly — it falls out of
// bodyLen (the ext frame's own length field, which already counts the
// count field, padding, and data together) once the count and element
// size are known: pad = bodyLen - 4 - count*elemSize.
func (d *Decoder) decodeTypedArray(kind TypedArrayKind, bodyLen int) (Value, error) {
	if bodyLen < 4 {
		return nil, invalidExtPayload(d.pos, typedArrayExtByte(kind), "typed-array payload missing count field")
	}
	count, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	elemSize := typedArrayElementSize(kind)
	dataBytes := int(count) * elemSize
	pad := bodyLen - 4 - dataBytes
	if pad < 0 {
		return nil, invalidExtPayload(d.pos, typedArrayExtByte(kind), "typed-array payload length inconsistent with element count")
	}
	if pad > 0 {
		if _, err := d.require(pad); err != nil {
			return nil, err
		}
	}
	data, err := d.require(dataBytes)
	if err != nil {
		return nil, err
	}
	return buildTypedArray(kind, data, int(count)), nil
}

// buildTypedArray reinterprets data as the element type kind names. When
// data's address satisfies the element's alignment, the result is a
// zero-copy unsafe.Slice view aliasing the Decoder's input buffer (spec
// §4.3, §8 property 4); otherwise a fresh slice is copied element by
// element through the host's native byte order, since an unaligned
// unsafe.Slice risks undefined behavior on architectures that fault on
// misaligned access.
func buildTypedArray(kind TypedArrayKind, data []byte, count int) *TypedArray {
	ta := &TypedArray{Kind: kind}
	switch kind {
	case KindInt8:
		ta.Int8 = unsafe.Slice((*int8)(unsafe.Pointer(unsafe.SliceData(data))), count)
	case KindUint16:
		if isAligned(data, 2) {
			ta.Uint16 = unsafe.Slice((*uint16)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Uint16 = make([]uint16, count)
			for i := range ta.Uint16 {
				ta.Uint16[i] = nativeEndian.Uint16(data[i*2:])
			}
		}
	case KindInt16:
		if isAligned(data, 2) {
			ta.Int16 = unsafe.Slice((*int16)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Int16 = make([]int16, count)
			for i := range ta.Int16 {
				ta.Int16[i] = int16(nativeEndian.Uint16(data[i*2:]))
			}
		}
	case KindUint32:
		if isAligned(data, 4) {
			ta.Uint32 = unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Uint32 = make([]uint32, count)
			for i := range ta.Uint32 {
				ta.Uint32[i] = nativeEndian.Uint32(data[i*4:])
			}
		}
	case KindInt32:
		if isAligned(data, 4) {
			ta.Int32 = unsafe.Slice((*int32)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Int32 = make([]int32, count)
			for i := range ta.Int32 {
				ta.Int32[i] = int32(nativeEndian.Uint32(data[i*4:]))
			}
		}
	case KindUint64:
		if isAligned(data, 8) {
			ta.Uint64 = unsafe.Slice((*uint64)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Uint64 = make([]uint64, count)
			for i := range ta.Uint64 {
				ta.Uint64[i] = nativeEndian.Uint64(data[i*8:])
			}
		}
	case KindInt64:
		if isAligned(data, 8) {
			ta.Int64 = unsafe.Slice((*int64)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Int64 = make([]int64, count)
			for i := range ta.Int64 {
				ta.Int64[i] = int64(nativeEndian.Uint64(data[i*8:]))
			}
		}
	case KindFloat32:
		if isAligned(data, 4) {
			ta.Float32 = unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Float32 = make([]float32, count)
			for i := range ta.Float32 {
				ta.Float32[i] = math.Float32frombits(nativeEndian.Uint32(data[i*4:]))
			}
		}
	case KindFloat64:
		if isAligned(data, 8) {
			ta.Float64 = unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(data))), count)
		} else {
			ta.Float64 = make([]float64, count)
			for i := range ta.Float64 {
				ta.Float64[i] = math.Float64frombits(nativeEndian.Uint64(data[i*8:]))
			}
		}
	}
	return ta
}

func isAligned(data []byte, align int) bool {
	if len(data) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(data)))%uintptr(align) == 0
}
