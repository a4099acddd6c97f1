package packer

import "testing"

// userRecord is a test-local caller-defined type exercising the
// ModelMapper encode hook and DecodeModel's decode-time mirror. It must
// implement packerValue() itself since Value is a sealed interface.
type userRecord struct {
	ID   int64
	Name string
}

func (userRecord) packerValue() {}

func (u userRecord) ToValueMap() *Map {
	m := NewMap()
	m.Set("id", Int(u.ID))
	m.Set("name", Text(u.Name))
	return m
}

func userRecordFactory(m *Map) (any, error) {
	idVal, ok := m.Get("id")
	if !ok {
		return nil, typeMismatch(-1, "Int64", "missing")
	}
	nameVal, ok := m.Get("name")
	if !ok {
		return nil, typeMismatch(-1, "Text", "missing")
	}
	return userRecord{ID: int64(idVal.(Int)), Name: string(nameVal.(Text))}, nil
}

func TestModelMapperEncodesAsMap(t *testing.T) {
	u := userRecord{ID: 7, Name: "ada"}
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(u)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("expected *Map, got %T", v)
	}
	id, ok := m.Get("id")
	if !ok || id.(Int) != 7 {
		t.Errorf("id = %v", id)
	}
	name, ok := m.Get("name")
	if !ok || name.(Text) != "ada" {
		t.Errorf("name = %v", name)
	}
}

func TestDecodeModelRoundtrip(t *testing.T) {
	u := userRecord{ID: 42, Name: "grace"}
	enc := NewEncoder(DefaultConfig())
	b, err := enc.Pack(u)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	dec := NewDecoder(b, DefaultConfig())
	v, err := dec.Unpack()
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	got, err := DecodeModel(v, userRecordFactory)
	if err != nil {
		t.Fatalf("DecodeModel: %v", err)
	}
	out, ok := got.(userRecord)
	if !ok || out != u {
		t.Errorf("DecodeModel roundtrip mismatch: got %#v, want %#v", got, u)
	}
}

func TestDecodeModelRejectsNonMap(t *testing.T) {
	_, err := DecodeModel(Int(1), userRecordFactory)
	if err == nil {
		t.Fatal("expected type-mismatch error for non-Map input")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindTypeMismatch {
		t.Fatalf("expected type-mismatch Error, got %v", err)
	}
}

func TestValueTypeNameVocabulary(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null{}, "Null"},
		{Int(1), "Int64"},
		{Float(1), "Float64"},
		{Text("a"), "Text"},
		{URI("http://x"), "Uri"},
		{Duration(1), "Duration"},
	}
	for _, c := range cases {
		if got := valueTypeName(c.v); got != c.want {
			t.Errorf("valueTypeName(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}
