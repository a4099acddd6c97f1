// Package packer implements an in-process binary serialization codec for
// a polymorphic value tree: scalars, strings, binary blobs, ordered and
// associative containers, dates, durations, arbitrary-precision integers,
// URIs, typed numeric arrays, and user-supplied model objects.
//
// The wire format is a prefix-byte taxonomy with fixed-family compaction
// (small integers, short strings, small containers fold into a single
// byte) and extension-type envelopes for everything the core eight wire
// families don't cover directly. Encoding picks the smallest size class
// that fits; decoding hands back zero-copy views over typed-array
// payloads whenever the buffer's alignment permits.
package packer

import "math/big"

// Value is a canonical model value. Concrete types below are the only
// implementations; the marker method seals the interface to this
// package, matching the sum-type mapping spec.md's design notes call for
// in place of the source's dynamic dispatch.
type Value interface {
	packerValue()
}

// Null is the Null value.
type Null struct{}

// Bool is the Bool value.
type Bool bool

// Int is the Int64 value: a host-wide signed 64-bit integer.
type Int int64

// BigInt is the BigInteger value: an arbitrary-precision integer.
type BigInt struct {
	V *big.Int
}

// Float is the Float64 value.
type Float float64

// Bytes is the Bytes value: an opaque byte blob.
type Bytes []byte

// Text is the Text value: a UTF-8 string.
type Text string

// List is the List value: an ordered, heterogeneous sequence.
type List []Value

// Map is the Map value: an insertion-ordered associative container.
// Keys and Values are parallel slices rather than a Go map so that
// insertion order is preserved without an auxiliary ordering structure;
// keys may be any Value, though the common case (and the only case the
// decoder's fast path and the model hook produce) is Text.
type Map struct {
	Keys   []Value
	Values []Value
}

// Set is the Set value: an unordered collection, always carried on the
// wire via the "set" ext type (spec §4.1/§4.2).
type Set []Value

// DateTime is the DateTime value: an instant expressed as epoch
// microseconds, with a flag recording whether it denotes UTC.
type DateTime struct {
	Micros int64
	UTC    bool
}

// Duration is the Duration value: a signed span of microseconds.
type Duration int64

// URI is the Uri value: normalized URI text.
type URI string

// ExtValue is the ExtUnknown value: an opaque ext-type byte and its
// payload, returned for any ext type this codec does not register.
type ExtValue struct {
	Type byte
	Data []byte
}

func (Null) packerValue()     {}
func (Bool) packerValue()     {}
func (Int) packerValue()      {}
func (BigInt) packerValue()   {}
func (Float) packerValue()    {}
func (Bytes) packerValue()    {}
func (Text) packerValue()     {}
func (List) packerValue()     {}
func (*Map) packerValue()     {}
func (Set) packerValue()      {}
func (DateTime) packerValue() {}
func (Duration) packerValue() {}
func (URI) packerValue()      {}
func (*TypedArray) packerValue()  {}
func (*BoolBitList) packerValue() {}
func (ExtValue) packerValue()     {}

// NewMap returns an empty Map. It takes no key/value arguments
// (alternating Value arguments would be error-prone); callers add
// entries with Set, append to the parallel slices directly, or use MapOf
// for the common Text-keyed case.
func NewMap() *Map {
	return &Map{}
}

// MapOf builds a Text-keyed Map from a Go map in an unspecified order —
// callers that need a stable encode order should build Keys/Values by
// hand, or rely on Config.DeterministicMaps at encode time.
func MapOf(entries map[string]Value) *Map {
	m := &Map{Keys: make([]Value, 0, len(entries)), Values: make([]Value, 0, len(entries))}
	for k, v := range entries {
		m.Keys = append(m.Keys, Text(k))
		m.Values = append(m.Values, v)
	}
	return m
}

// Get returns the value associated with a Text key, and whether it was
// found. Linear scan: Map is optimized for encode/decode fidelity and
// insertion order, not lookup.
func (m *Map) Get(key string) (Value, bool) {
	for i, k := range m.Keys {
		if t, ok := k.(Text); ok && string(t) == key {
			return m.Values[i], true
		}
	}
	return nil, false
}

// Set assigns a Text key, replacing any existing entry with that key or
// appending a new one.
func (m *Map) Set(key string, v Value) {
	for i, k := range m.Keys {
		if t, ok := k.(Text); ok && string(t) == key {
			m.Values[i] = v
			return
		}
	}
	m.Keys = append(m.Keys, Text(key))
	m.Values = append(m.Values, v)
}

// allKeysText reports whether every key in the map is Text, the
// condition under which deterministic ordering (spec §3 invariant 6) and
// the decoder's string-keyed fast path apply.
func (m *Map) allKeysText() bool {
	for _, k := range m.Keys {
		if _, ok := k.(Text); !ok {
			return false
		}
	}
	return true
}
