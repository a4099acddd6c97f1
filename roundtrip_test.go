package packer

import (
	"math"
	"math/big"
	"testing"
)

func roundtrip(t *testing.T, cfg Config, v Value) Value {
	t.Helper()
	enc := NewEncoder(cfg)
	b, err := enc.Pack(v)
	if err != nil {
		t.Fatalf("Pack(%#v): %v", v, err)
	}
	dec := NewDecoder(b, cfg)
	out, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !dec.IsDone() {
		t.Fatalf("decoder did not consume entire buffer: offset=%d len=%d", dec.Offset(), len(b))
	}
	return out
}

func TestRoundtripScalars(t *testing.T) {
	cfg := DefaultConfig()
	cases := []Value{
		Null{},
		Bool(true),
		Bool(false),
		Int(0),
		Int(-1),
		Int(1 << 40),
		Int(math.MinInt64),
		Int(math.MaxInt64),
		Float(0),
		Float(-3.5),
		Float(math.Inf(1)),
		Float(math.NaN()),
		Bytes{0x01, 0x02, 0x03},
		Text(""),
		Text("plain ascii"),
		Text("café"),
		URI("https://example.com/a?b=1"),
		Duration(-123456),
		DateTime{Micros: 1700000000000000, UTC: true},
	}
	for _, v := range cases {
		got := roundtrip(t, cfg, v)
		assertValueEqual(t, v, got)
	}
}

// assertValueEqual compares scalar Values explicitly rather than with a
// bare != on the Value interface: several variants (Bytes, and any
// container) are backed by slices, and Go panics at runtime comparing
// two interface values whose dynamic type is uncomparable.
func assertValueEqual(t *testing.T, want, got Value) {
	t.Helper()
	switch w := want.(type) {
	case Null:
		if _, ok := got.(Null); !ok {
			t.Errorf("type mismatch: want Null, got %T", got)
		}
	case Bool:
		if g, ok := got.(Bool); !ok || g != w {
			t.Errorf("Bool mismatch: want %v, got %#v", w, got)
		}
	case Int:
		if g, ok := got.(Int); !ok || g != w {
			t.Errorf("Int mismatch: want %v, got %#v", w, got)
		}
	case Float:
		g, ok := got.(Float)
		if !ok {
			t.Fatalf("type mismatch: want Float, got %T", got)
		}
		if math.IsNaN(float64(w)) {
			if !math.IsNaN(float64(g)) {
				t.Errorf("expected NaN, got %v", g)
			}
			return
		}
		if w != g {
			t.Errorf("Float mismatch: want %v, got %v", w, g)
		}
	case Bytes:
		g, ok := got.(Bytes)
		if !ok || string(g) != string(w) {
			t.Errorf("Bytes mismatch: want %v, got %#v", w, got)
		}
	case Text:
		if g, ok := got.(Text); !ok || g != w {
			t.Errorf("Text mismatch: want %q, got %#v", w, got)
		}
	case URI:
		if g, ok := got.(URI); !ok || g != w {
			t.Errorf("URI mismatch: want %q, got %#v", w, got)
		}
	case Duration:
		if g, ok := got.(Duration); !ok || g != w {
			t.Errorf("Duration mismatch: want %v, got %#v", w, got)
		}
	case DateTime:
		g, ok := got.(DateTime)
		if !ok || g != w {
			t.Errorf("DateTime mismatch: want %#v, got %#v", w, got)
		}
	default:
		t.Fatalf("assertValueEqual: unhandled type %T", want)
	}
}

func TestRoundtripBytes(t *testing.T) {
	v := Bytes{0xDE, 0xAD, 0xBE, 0xEF}
	got := roundtrip(t, DefaultConfig(), v)
	gb, ok := got.(Bytes)
	if !ok || string(gb) != string(v) {
		t.Errorf("Bytes roundtrip mismatch: got %v", got)
	}
}

func TestRoundtripNestedContainers(t *testing.T) {
	inner := NewMap()
	inner.Set("id", Int(7))
	inner.Set("tags", List{Text("a"), Text("b")})

	outer := List{inner, Set{Int(1), Int(2), Int(3)}, Null{}}

	got := roundtrip(t, DefaultConfig(), outer)
	outList, ok := got.(List)
	if !ok || len(outList) != 3 {
		t.Fatalf("expected 3-element List, got %#v", got)
	}
	m, ok := outList[0].(*Map)
	if !ok {
		t.Fatalf("expected *Map as first element, got %T", outList[0])
	}
	id, ok := m.Get("id")
	if !ok || id.(Int) != 7 {
		t.Errorf("nested map field mismatch: %v", id)
	}
	set, ok := outList[1].(Set)
	if !ok || len(set) != 3 {
		t.Fatalf("expected 3-element Set, got %#v", outList[1])
	}
}

// TestSkipValueMatchesUnpackOffset covers property #7: for any valid
// buffer, SkipValue leaves the offset at the same position Unpack
// would.
func TestSkipValueMatchesUnpackOffset(t *testing.T) {
	inner := NewMap()
	inner.Set("id", Int(7))
	inner.Set("tags", List{Text("a"), Text("b")})

	cases := []Value{
		Int(42),
		Text("hello, world"),
		Bytes{0x01, 0x02, 0x03},
		List{inner, Set{Int(1), Int(2), Int(3)}, Null{}},
		&TypedArray{Kind: KindInt32, Int32: []int32{1, -2, 3, -400000}},
		BigInt{V: big.NewInt(-123456789012345)},
		DateTime{Micros: 1700000000000000, UTC: true},
		URI("https://example.com/a?b=1"),
	}

	cfg := DefaultConfig()
	for _, v := range cases {
		packed := mustPackWithConfig(t, cfg, v)

		unpackDec := NewDecoder(packed, cfg)
		if _, err := unpackDec.Unpack(); err != nil {
			t.Fatalf("Unpack(%#v): %v", v, err)
		}

		skipDec := NewDecoder(packed, cfg)
		if err := skipDec.SkipValue(); err != nil {
			t.Fatalf("SkipValue(%#v): %v", v, err)
		}

		if unpackDec.Offset() != skipDec.Offset() {
			t.Errorf("offset mismatch for %#v: unpack=%d skip=%d", v, unpackDec.Offset(), skipDec.Offset())
		}
		if !unpackDec.IsDone() || !skipDec.IsDone() {
			t.Errorf("expected both decoders to fully consume the buffer for %#v", v)
		}
	}
}

func TestRoundtripTypedArrays(t *testing.T) {
	ta := &TypedArray{Kind: KindInt32, Int32: []int32{1, -2, 3, -400000}}
	got := roundtrip(t, DefaultConfig(), ta)
	out, ok := got.(*TypedArray)
	if !ok || out.Kind != KindInt32 {
		t.Fatalf("expected *TypedArray(int32), got %#v", got)
	}
	if len(out.Int32) != len(ta.Int32) {
		t.Fatalf("length mismatch: got %d, want %d", len(out.Int32), len(ta.Int32))
	}
	for i := range ta.Int32 {
		if out.Int32[i] != ta.Int32[i] {
			t.Errorf("element %d mismatch: got %d, want %d", i, out.Int32[i], ta.Int32[i])
		}
	}
}

func TestRoundtripFloat32TypedArray(t *testing.T) {
	ta := &TypedArray{Kind: KindFloat32, Float32: []float32{1.5, -2.25, 0, 100}}
	got := roundtrip(t, DefaultConfig(), ta)
	out := got.(*TypedArray)
	if out.Kind != KindFloat32 {
		t.Fatalf("expected float32 kind, got %v", out.Kind)
	}
	for i := range ta.Float32 {
		if out.Float32[i] != ta.Float32[i] {
			t.Errorf("element %d mismatch: got %v, want %v", i, out.Float32[i], ta.Float32[i])
		}
	}
}

func TestRoundtripFloat64TypedArray(t *testing.T) {
	ta := &TypedArray{Kind: KindFloat64, Float64: []float64{1.5, -2.25, 0, 100}}
	got := roundtrip(t, DefaultConfig(), ta)
	out := got.(*TypedArray)
	if out.Kind != KindFloat64 {
		t.Fatalf("expected float64 kind, got %v", out.Kind)
	}
	for i := range ta.Float64 {
		if out.Float64[i] != ta.Float64[i] {
			t.Errorf("element %d mismatch: got %v, want %v", i, out.Float64[i], ta.Float64[i])
		}
	}
}

func TestRoundtripPromotedIntegerList(t *testing.T) {
	list := List{Int(1000), Int(-2000), Int(3000), Int(-4000), Int(5000)}
	got := roundtrip(t, DefaultConfig(), list)
	ta, ok := got.(*TypedArray)
	if !ok {
		t.Fatalf("expected promotion to *TypedArray, got %T", got)
	}
	if ta.Kind != KindInt16 {
		t.Fatalf("expected int16 typed array, got kind %v", ta.Kind)
	}
	want := []int16{1000, -2000, 3000, -4000, 5000}
	if len(ta.Int16) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(ta.Int16), len(want))
	}
	for i := range want {
		if ta.Int16[i] != want[i] {
			t.Errorf("element %d mismatch: got %d, want %d", i, ta.Int16[i], want[i])
		}
	}
}

func TestRoundtripPromotedBoolList(t *testing.T) {
	list := List{Bool(true), Bool(false), Bool(true), Bool(true), Bool(false)}
	got := roundtrip(t, DefaultConfig(), list)
	bl, ok := got.(*BoolBitList)
	if !ok {
		t.Fatalf("expected promotion to *BoolBitList, got %T", got)
	}
	want := []bool{true, false, true, true, false}
	if bl.Length() != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", bl.Length(), len(want))
	}
	for i, w := range want {
		if bl.Get(i) != w {
			t.Errorf("bit %d mismatch: got %v, want %v", i, bl.Get(i), w)
		}
	}
}

func TestRoundtripBigInt(t *testing.T) {
	n := new(big.Int)
	n.SetString("-99999999999999999999999999999999999999", 10)
	got := roundtrip(t, DefaultConfig(), BigInt{V: n})
	bi, ok := got.(BigInt)
	if !ok || bi.V.Cmp(n) != 0 {
		t.Fatalf("BigInt roundtrip mismatch: got %#v", got)
	}
}

func TestRoundtripExtValueUnknown(t *testing.T) {
	v := ExtValue{Type: 0x7F, Data: []byte{1, 2, 3, 4, 5}}
	got := roundtrip(t, DefaultConfig(), v)
	ev, ok := got.(ExtValue)
	if !ok || ev.Type != v.Type || string(ev.Data) != string(v.Data) {
		t.Fatalf("ExtValue roundtrip mismatch: got %#v", got)
	}
}

func TestPackUnpackTopLevel(t *testing.T) {
	cfg := DefaultConfig()
	b, err := Pack(Text("top level"), cfg, true)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	v, err := Unpack(b, cfg, false)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if v.(Text) != "top level" {
		t.Errorf("got %v", v)
	}
}

func TestUnpackFromJSON(t *testing.T) {
	cfg := DefaultConfig()
	doc := `{"name": "ok", "count": 3, "ratio": 1.5, "flag": true, "nil": null, "items": [1, 2, 3]}`
	v, err := Unpack([]byte(doc), cfg, true)
	if err != nil {
		t.Fatalf("Unpack(fromJSON): %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("expected *Map, got %T", v)
	}
	name, _ := m.Get("name")
	if name.(Text) != "ok" {
		t.Errorf("name = %v", name)
	}
	count, _ := m.Get("count")
	if count.(Int) != 3 {
		t.Errorf("count = %v, want Int(3)", count)
	}
	ratio, _ := m.Get("ratio")
	if ratio.(Float) != 1.5 {
		t.Errorf("ratio = %v, want Float(1.5)", ratio)
	}
	flag, _ := m.Get("flag")
	if flag.(Bool) != true {
		t.Errorf("flag = %v", flag)
	}
	nilVal, _ := m.Get("nil")
	if _, ok := nilVal.(Null); !ok {
		t.Errorf("nil field = %#v, want Null", nilVal)
	}
	items, _ := m.Get("items")
	list, ok := items.(List)
	if !ok || len(list) != 3 {
		t.Fatalf("items = %#v", items)
	}
}
