package packer

import "testing"

func TestSizeClassForLength(t *testing.T) {
	cases := []struct {
		n, fixMax int
		want      sizeClass
	}{
		{0, 15, sizeFix},
		{15, 15, sizeFix},
		{16, 15, size8},
		{0xFF, 15, size8},
		{0x100, 15, size16},
		{0xFFFF, 15, size16},
		{0x10000, 15, size32},
		{5, 0, size8},
	}
	for _, c := range cases {
		if got := sizeClassForLength(c.n, c.fixMax); got != c.want {
			t.Errorf("sizeClassForLength(%d, %d) = %v, want %v", c.n, c.fixMax, got, c.want)
		}
	}
}

func TestTypedArrayPadding(t *testing.T) {
	cases := []struct {
		headerLen, align int
		want             int
	}{
		{7, 1, 0},
		{7, 2, 1},
		{8, 4, 0},
		{7, 4, 1},
		{6, 8, 2},
	}
	for _, c := range cases {
		if got := typedArrayPadding(c.headerLen, c.align); got != c.want {
			t.Errorf("typedArrayPadding(%d, %d) = %d, want %d", c.headerLen, c.align, got, c.want)
		}
	}
}

func TestTypedArrayExtByteRoundtrip(t *testing.T) {
	kinds := []TypedArrayKind{
		KindInt8, KindUint16, KindInt16, KindUint32, KindInt32,
		KindUint64, KindInt64, KindFloat32, KindFloat64,
	}
	for _, k := range kinds {
		b := typedArrayExtByte(k)
		got, ok := typedArrayKindForExtByte(b)
		if !ok {
			t.Errorf("typedArrayKindForExtByte(%#x) not ok for kind %v", b, k)
			continue
		}
		if got != k {
			t.Errorf("roundtrip kind mismatch: %v -> %#x -> %v", k, b, got)
		}
	}
}
