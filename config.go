package packer

// IntInteropMode controls how integers wider than 64 bits cross the
// wire, and how integers near the float-safe boundary are surfaced on
// decode (spec §4.4).
type IntInteropMode uint8

const (
	// InteropOff: on this (64-bit) host, wire integers become host
	// integers when representable as int64, otherwise BigInt (so a
	// uint64 above the int64 maximum surfaces as BigInt).
	InteropOff IntInteropMode = iota
	// InteropPromoteWideToBigInt: any wire integer outside the safe
	// window ±(2^53−1) is surfaced as BigInt regardless of host; on
	// encode, out-of-window values are converted to BigInt and emitted
	// via the bigInt ext.
	InteropPromoteWideToBigInt
	// InteropRequireBigIntForWide: encoding a host integer outside the
	// safe window fails — callers must pass a BigInt explicitly;
	// decoding treats out-of-window values as BigInt.
	InteropRequireBigIntForWide
)

// wireMaxLength is the largest length, count, or byte-size value the
// widest wire size class (a u32 length field) can express, and the
// default for every per-kind cap below.
const wireMaxLength = 0xFFFFFFFF

// Config holds the immutable set of options recognized by Encoder and
// Decoder (spec §3). Values are copied by With* methods, following the
// builder pattern used by the corpus's other msgpack-family reference
// code (DefaultConfig().WithMaxStringLen(n)-style chaining) rather than
// a mutable options struct — Config must stay immutable once built
// because Encoder/Decoder are reused across pack/unpack calls without
// re-validating configuration on every call.
type Config struct {
	InitialCapacity int
	PreferFloat32   bool

	AllowMalformedUTF8 bool
	DeterministicMaps  bool

	MaxDepth int

	IntInteropMode          IntInteropMode
	MaxBigIntMagnitudeBytes uint32

	NumericListPromotionMinLength int

	MaxStringUTF8Bytes uint32
	MaxURIUTF8Bytes    uint32
	MaxBinaryBytes     uint32
	MaxArrayLength     uint32
	MaxMapLength       uint32
	MaxExtPayloadBytes uint32
}

// DefaultConfig returns the Config new Encoders and Decoders use when
// none is supplied: every cap defaults to the wire maximum, depth is
// generously bounded, and both the ASCII/opaque-bytes fast paths and
// deterministic maps are governed by their documented defaults (non-
// deterministic insertion order, promotion enabled above a small
// threshold).
func DefaultConfig() Config {
	return Config{
		InitialCapacity:                64,
		PreferFloat32:                  false,
		AllowMalformedUTF8:             false,
		DeterministicMaps:              false,
		MaxDepth:                       1000,
		IntInteropMode:                 InteropOff,
		MaxBigIntMagnitudeBytes:        wireMaxLength,
		NumericListPromotionMinLength:  4,
		MaxStringUTF8Bytes:             wireMaxLength,
		MaxURIUTF8Bytes:                wireMaxLength,
		MaxBinaryBytes:                 wireMaxLength,
		MaxArrayLength:                 wireMaxLength,
		MaxMapLength:                   wireMaxLength,
		MaxExtPayloadBytes:             wireMaxLength,
	}
}

func (c Config) WithInitialCapacity(n int) Config { c.InitialCapacity = n; return c }
func (c Config) WithPreferFloat32(v bool) Config  { c.PreferFloat32 = v; return c }
func (c Config) WithAllowMalformedUTF8(v bool) Config {
	c.AllowMalformedUTF8 = v
	return c
}
func (c Config) WithDeterministicMaps(v bool) Config { c.DeterministicMaps = v; return c }
func (c Config) WithMaxDepth(n int) Config           { c.MaxDepth = n; return c }
func (c Config) WithIntInteropMode(m IntInteropMode) Config {
	c.IntInteropMode = m
	return c
}
func (c Config) WithMaxBigIntMagnitudeBytes(n uint32) Config {
	c.MaxBigIntMagnitudeBytes = n
	return c
}
func (c Config) WithNumericListPromotionMinLength(n int) Config {
	c.NumericListPromotionMinLength = n
	return c
}
func (c Config) WithMaxStringUTF8Bytes(n uint32) Config { c.MaxStringUTF8Bytes = n; return c }
func (c Config) WithMaxURIUTF8Bytes(n uint32) Config    { c.MaxURIUTF8Bytes = n; return c }
func (c Config) WithMaxBinaryBytes(n uint32) Config     { c.MaxBinaryBytes = n; return c }
func (c Config) WithMaxArrayLength(n uint32) Config     { c.MaxArrayLength = n; return c }
func (c Config) WithMaxMapLength(n uint32) Config       { c.MaxMapLength = n; return c }
func (c Config) WithMaxExtPayloadBytes(n uint32) Config { c.MaxExtPayloadBytes = n; return c }
