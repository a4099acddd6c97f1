package packer

// TypedArrayKind identifies which of the nine typed numeric element
// kinds a TypedArray carries.
type TypedArrayKind uint8

const (
	KindInt8 TypedArrayKind = iota
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat32
	KindFloat64
)

// TypedArray is the TypedArray value. Exactly one of the typed slice
// fields matching Kind is populated; the rest are nil. This mirrors a
// tagged union without reflection: Go has no native sum type, and a
// single field typed as `any` would force a type assertion on every
// access, whereas Kind plus a fixed set of typed fields keeps the hot
// encode/decode paths assertion-free.
//
// Slices produced by Decoder.Unpack may be zero-copy views over the
// decoder's input buffer (spec §4.3, §8 property 4); callers that need
// the data to outlive that buffer must copy it themselves, e.g. with
// TypedArray.Clone.
type TypedArray struct {
	Kind TypedArrayKind

	Int8    []int8
	Uint16  []uint16
	Int16   []int16
	Uint32  []uint32
	Int32   []int32
	Uint64  []uint64
	Int64   []int64
	Float32 []float32
	Float64 []float64
}

// Len returns the element count, regardless of which field is populated.
func (t *TypedArray) Len() int {
	switch t.Kind {
	case KindInt8:
		return len(t.Int8)
	case KindUint16:
		return len(t.Uint16)
	case KindInt16:
		return len(t.Int16)
	case KindUint32:
		return len(t.Uint32)
	case KindInt32:
		return len(t.Int32)
	case KindUint64:
		return len(t.Uint64)
	case KindInt64:
		return len(t.Int64)
	case KindFloat32:
		return len(t.Float32)
	case KindFloat64:
		return len(t.Float64)
	default:
		return 0
	}
}

// Clone returns a TypedArray whose backing slice is a fresh copy,
// independent of whatever buffer the original slice may be a view into.
func (t *TypedArray) Clone() *TypedArray {
	out := &TypedArray{Kind: t.Kind}
	switch t.Kind {
	case KindInt8:
		out.Int8 = append([]int8(nil), t.Int8...)
	case KindUint16:
		out.Uint16 = append([]uint16(nil), t.Uint16...)
	case KindInt16:
		out.Int16 = append([]int16(nil), t.Int16...)
	case KindUint32:
		out.Uint32 = append([]uint32(nil), t.Uint32...)
	case KindInt32:
		out.Int32 = append([]int32(nil), t.Int32...)
	case KindUint64:
		out.Uint64 = append([]uint64(nil), t.Uint64...)
	case KindInt64:
		out.Int64 = append([]int64(nil), t.Int64...)
	case KindFloat32:
		out.Float32 = append([]float32(nil), t.Float32...)
	case KindFloat64:
		out.Float64 = append([]float64(nil), t.Float64...)
	}
	return out
}
