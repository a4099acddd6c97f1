package packer

// ModelMapper is the encode-time hook (spec §4.5) for caller-defined
// types that aren't already one of the canonical Value variants.
// encodeValue's dispatch switch falls back to this interface only after
// every concrete Value kind has failed to match, so a type that also
// happens to satisfy ModelMapper but is itself a Value variant (there
// are none in this package) would never reach it.
type ModelMapper interface {
	// ToValueMap returns this value's canonical representation as a Map.
	// Implementations build a fresh Map each call; Encoder never mutates
	// the result, but also never caches it across calls.
	ToValueMap() *Map
}

// ModelFactory builds a caller-defined value back out of a decoded Map.
// It is the decode-time mirror of ModelMapper, supplied explicitly at
// the call site rather than discovered via a registry — this package
// has no global type registry, matching the corpus's preference for
// explicit construction over reflection-driven dispatch.
type ModelFactory func(*Map) (any, error)

// DecodeModel decodes v as a Map and runs it through factory, returning
// a type-mismatch error if v isn't a Map (spec §4.5: the model hook's
// decode-time counterpart). It does not attempt to recognize v's source
// type automatically; callers that round-trip heterogeneous model types
// through a single Value tree are expected to tag their own Maps (e.g.
// with a reserved key) and pick the right factory themselves.
func DecodeModel(v Value, factory ModelFactory) (any, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, typeMismatch(-1, "Map", valueTypeName(v))
	}
	return factory(m)
}

// valueTypeName names v's runtime kind for error messages, using the
// same vocabulary spec.md's Data Model section uses rather than Go's
// %T (which would leak package-internal type names into Details).
func valueTypeName(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "Null"
	case Bool:
		return "Bool"
	case Int:
		return "Int64"
	case BigInt:
		return "BigInteger"
	case Float:
		return "Float64"
	case Bytes:
		return "Bytes"
	case Text:
		return "Text"
	case List:
		return "List"
	case *Map:
		return "Map"
	case Set:
		return "Set"
	case DateTime:
		return "DateTime"
	case Duration:
		return "Duration"
	case URI:
		return "Uri"
	case *TypedArray:
		return "TypedArray"
	case *BoolBitList:
		return "BoolBitList"
	case ExtValue:
		return "ExtUnknown"
	default:
		return "Unknown"
	}
}
