package packer

import "math/big"

// safeWindowLimit is the inclusive boundary of the "safe window"
// ±(2^53−1): the range of integers exactly representable by a
// float-backed host (spec GLOSSARY). Go's int64 always has full 64-bit
// precision, but the interop modes that ask for JS-like semantics
// (InteropPromoteWideToBigInt, InteropRequireBigIntForWide) apply this
// boundary regardless of host, so it exists as real, reachable logic
// even though host auto-detection on this runtime never selects it.
const safeWindowLimit = int64(1)<<53 - 1

// NumericRuntime records the facts about the host that the interop
// policy (spec §4.4) depends on. Each Encoder and Decoder records it
// when constructed; its value is the same for every call in a process.
type NumericRuntime struct {
	// FloatLikeHost is true when the host's native integer precision is
	// float-backed (the "JS-like" host in spec §4.4). Always false for
	// this Go build: Go integers are natively 64-bit.
	FloatLikeHost bool
}

// detectNumericRuntime returns the NumericRuntime constants for this
// process. Go is always a 64-bit-native host.
func detectNumericRuntime() NumericRuntime {
	return NumericRuntime{FloatLikeHost: false}
}

// inSafeWindow reports whether v falls within ±(2^53−1).
func inSafeWindow(v int64) bool {
	return v >= -safeWindowLimit && v <= safeWindowLimit
}

// bigIntInSafeWindow reports whether an arbitrary-precision integer
// falls within ±(2^53−1).
func bigIntInSafeWindow(v *big.Int) bool {
	return v.CmpAbs(big.NewInt(safeWindowLimit)) <= 0
}

// coerceWideBigInt applies the smart integer coercion rule to a decoded
// wideInt ext payload, which carries the same sign+magnitude shape as
// bigInt but may represent any magnitude a producer chose to tag that
// way (spec §9: "decoders should not assume which ext they will see").
func coerceWideBigInt(rt NumericRuntime, mode IntInteropMode, v *big.Int) Value {
	switch mode {
	case InteropPromoteWideToBigInt, InteropRequireBigIntForWide:
		if bigIntInSafeWindow(v) {
			return Int(v.Int64())
		}
		return BigInt{V: v}
	default: // InteropOff
		if !rt.FloatLikeHost {
			if v.IsInt64() {
				return Int(v.Int64())
			}
			return BigInt{V: v}
		}
		if bigIntInSafeWindow(v) {
			return Int(v.Int64())
		}
		return BigInt{V: v}
	}
}

// coerceWideUint64 applies the smart 64-bit integer coercion rule (spec
// §4.3) to a decoded unsigned 64-bit wire scalar, returning either an
// Int or a BigInt per the configured interop mode.
func coerceWideUint64(rt NumericRuntime, mode IntInteropMode, v uint64) Value {
	switch mode {
	case InteropPromoteWideToBigInt, InteropRequireBigIntForWide:
		if v <= uint64(safeWindowLimit) {
			return Int(int64(v))
		}
		return BigInt{V: new(big.Int).SetUint64(v)}
	default: // InteropOff
		if !rt.FloatLikeHost {
			// Native 64-bit host: representable as int64 or, if it
			// overflows signed range, surfaces as BigInt so callers
			// never silently lose the sign bit.
			if v <= uint64(1<<63-1) {
				return Int(int64(v))
			}
			return BigInt{V: new(big.Int).SetUint64(v)}
		}
		if v <= uint64(safeWindowLimit) {
			return Int(int64(v))
		}
		return BigInt{V: new(big.Int).SetUint64(v)}
	}
}

// coerceWideInt64 applies the smart 64-bit integer coercion rule to a
// decoded signed 64-bit wire scalar.
func coerceWideInt64(rt NumericRuntime, mode IntInteropMode, v int64) Value {
	switch mode {
	case InteropPromoteWideToBigInt, InteropRequireBigIntForWide:
		if inSafeWindow(v) {
			return Int(v)
		}
		return BigInt{V: big.NewInt(v)}
	default: // InteropOff
		if !rt.FloatLikeHost {
			return Int(v)
		}
		if inSafeWindow(v) {
			return Int(v)
		}
		return BigInt{V: big.NewInt(v)}
	}
}
