package packer

import (
	"math/big"
	"testing"
	"unicode/utf8"
)

func TestDecodeTruncatedInput(t *testing.T) {
	dec := NewDecoder([]byte{prefixUint16, 0x01}, DefaultConfig())
	_, err := dec.Unpack()
	if err == nil {
		t.Fatal("expected truncated-input error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindTruncatedInput {
		t.Fatalf("expected truncated-input Error, got %v", err)
	}
}

func TestDecodeUnknownPrefix(t *testing.T) {
	dec := NewDecoder([]byte{prefixUnknown}, DefaultConfig())
	_, err := dec.Unpack()
	if err == nil {
		t.Fatal("expected unknown-prefix error")
	}
	if perr, ok := err.(*Error); !ok || perr.Kind != KindUnknownPrefix {
		t.Fatalf("expected unknown-prefix Error, got %v", err)
	}
}

func TestDecodeTrailingBytesViaPack(t *testing.T) {
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(Int(1))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	b = append(b, 0x00)
	_, err = Unpack(b, DefaultConfig(), false)
	if err == nil {
		t.Fatal("expected trailing-bytes error")
	}
	if perr, ok := err.(*Error); !ok || perr.Kind != KindTrailingBytes {
		t.Fatalf("expected trailing-bytes Error, got %v", err)
	}
}

func TestDecodeBigIntRoundtrip(t *testing.T) {
	n := new(big.Int)
	n.SetString("123456789012345678901234567890", 10)
	v := BigInt{V: n}

	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(v)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	got, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	bi, ok := got.(BigInt)
	if !ok {
		t.Fatalf("expected BigInt, got %T", got)
	}
	if bi.V.Cmp(n) != 0 {
		t.Errorf("roundtrip mismatch: got %s, want %s", bi.V.String(), n.String())
	}
}

func TestDecodeNegativeBigIntRoundtrip(t *testing.T) {
	n := big.NewInt(-42)
	n.Mul(n, big.NewInt(1e18))

	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(BigInt{V: n})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	got, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.(BigInt).V.Cmp(n) != 0 {
		t.Errorf("sign lost in roundtrip: got %s, want %s", got.(BigInt).V.String(), n.String())
	}
}

func TestDecodeInvalidExtPayloadBoolList(t *testing.T) {
	// Hand-build a malformed boolList ext: count says 9 bits (needs 2
	// packed bytes) but only 1 packed byte is supplied.
	body := []byte{extBoolList, 0x00, 0x00, 0x00, 0x09, 0xFF}
	frame := append([]byte{prefixExt8, byte(len(body) - 1)}, body...)
	dec := NewDecoder(frame, DefaultConfig())
	_, err := dec.Unpack()
	if err == nil {
		t.Fatal("expected invalid-ext-payload error")
	}
	if perr, ok := err.(*Error); !ok || perr.Kind != KindInvalidExtPayload {
		t.Fatalf("expected invalid-ext-payload Error, got %v", err)
	}
}

func TestDecodeUnregisteredExtType(t *testing.T) {
	payload := []byte{0xAB, 0x01, 0x02, 0x03}
	frame := append([]byte{prefixExt8, byte(len(payload) - 1)}, payload...)
	dec := NewDecoder(frame, DefaultConfig())
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	ev, ok := v.(ExtValue)
	if !ok {
		t.Fatalf("expected ExtValue, got %T", v)
	}
	if ev.Type != 0xAB {
		t.Errorf("ext type mismatch: got %#x", ev.Type)
	}
}

func TestDecodeMapStringFastPath(t *testing.T) {
	m := NewMap()
	m.Set("x", Int(1))
	m.Set("y", Int(2))
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(m)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	out := v.(*Map)
	if len(out.Keys) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out.Keys))
	}
	got, ok := out.Get("y")
	if !ok || got.(Int) != 2 {
		t.Errorf("Get(y) = %v, %v", got, ok)
	}
}

func TestDecodeMapWithNonTextKey(t *testing.T) {
	m := &Map{Keys: []Value{Text("a"), Int(1)}, Values: []Value{Int(10), Int(20)}}
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(m)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	out := v.(*Map)
	if len(out.Keys) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out.Keys))
	}
	if _, ok := out.Keys[1].(Int); !ok {
		t.Errorf("expected second key to decode as Int, got %T", out.Keys[1])
	}
}

func TestDecodeTextAllowMalformedUTF8ReplacesInvalidSequences(t *testing.T) {
	// 0x61 'a', 0xFF (invalid lead byte), 0x62 'b'.
	raw := []byte{0x61, 0xFF, 0x62}
	frame := append([]byte{prefixFixStrMin | byte(len(raw))}, raw...)

	dec := NewDecoder(frame, DefaultConfig())
	if _, err := dec.Unpack(); err == nil {
		t.Fatal("expected invalid-ext-payload error without AllowMalformedUTF8")
	}

	cfg := DefaultConfig().WithAllowMalformedUTF8(true)
	dec = NewDecoder(frame, cfg)
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack with AllowMalformedUTF8: %v", err)
	}
	text, ok := v.(Text)
	if !ok {
		t.Fatalf("expected Text, got %T", v)
	}
	want := "a�b"
	if string(text) != want {
		t.Errorf("got %q, want %q", string(text), want)
	}
	if !utf8.ValidString(string(text)) {
		t.Errorf("expected replacement output to be valid UTF-8: %q", string(text))
	}
}

func TestDecodeMaxDepthExceeded(t *testing.T) {
	inner := List{Int(1)}
	var v Value = inner
	for i := 0; i < 5; i++ {
		v = List{v}
	}
	cfg := DefaultConfig().WithMaxDepth(3)
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(v)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, cfg)
	_, err = dec.Unpack()
	if err == nil {
		t.Fatal("expected max-depth-exceeded error")
	}
	if perr, ok := err.(*Error); !ok || perr.Kind != KindMaxDepthExceeded {
		t.Fatalf("expected max-depth-exceeded Error, got %v", err)
	}
}
