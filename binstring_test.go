package binstring

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"testing/quick"
	"unsafe"
)

var invalidUTF8 = []byte{0xff, 0xfe, 'a', 0xc3, 0x28}

func TestNew(t *testing.T) {
	b := New("hello")
	if got := b.AsText(); got != "hello" {
		t.Fatalf("AsText() = %q, want %q", got, "hello")
	}
	want := []byte{104, 101, 108, 108, 111}
	if got := b.AsBytes(); !bytes.Equal(got, want) {
		t.Fatalf("AsBytes() = %v, want %v", got, want)
	}
}

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"hello", []byte{104, 101, 108, 108, 111}},
		{"invalid utf8", invalidUTF8},
		{"zero bytes", []byte{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromBytes(tt.input)
			if !bytes.Equal(b.AsBytes(), tt.input) {
				t.Fatalf("AsBytes() = %v, want %v", b.AsBytes(), tt.input)
			}
			if b.Len() != len(tt.input) {
				t.Fatalf("Len() = %d, want %d", b.Len(), len(tt.input))
			}
			if b.IsEmpty() != (len(tt.input) == 0) {
				t.Fatalf("IsEmpty() = %v with length %d", b.IsEmpty(), len(tt.input))
			}
		})
	}
}

func TestFromBytesAsText(t *testing.T) {
	b := FromBytes([]byte{104, 101, 108, 108, 111})
	if got := b.AsText(); got != "hello" {
		t.Fatalf("AsText() = %q, want %q", got, "hello")
	}
}

func TestFromBytesTakesOwnership(t *testing.T) {
	raw := []byte("hello")
	b := FromBytes(raw)
	if unsafe.StringData(b.AsText()) != unsafe.SliceData(raw) {
		t.Fatal("FromBytes copied the buffer")
	}
}

func TestCopyBytes(t *testing.T) {
	raw := []byte("hello")
	b := CopyBytes(raw)
	raw[0] = 'j'
	if got := b.AsText(); got != "hello" {
		t.Fatalf("AsText() = %q after mutating source, want %q", got, "hello")
	}
}

func TestOf(t *testing.T) {
	type name string
	raw := []byte("abc")
	fromBytes := Of(raw)
	raw[0] = 'x'
	if fromBytes.AsText() != "abc" {
		t.Fatalf("Of([]byte) = %q, want %q", fromBytes.AsText(), "abc")
	}
	if got := Of("abc"); !got.Equal(fromBytes) {
		t.Fatalf("Of(string) = %q, want %q", got, fromBytes)
	}
	if got := Of(name("abc")); got.AsText() != "abc" {
		t.Fatalf("Of(name) = %q, want %q", got, "abc")
	}
}

func TestIntoTextRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "日本語", "a\x00b"} {
		if got := New(s).IntoText(); got != s {
			t.Errorf("New(%q).IntoText() = %q", s, got)
		}
	}
}

func TestText(t *testing.T) {
	s, err := New("héllo").Text()
	if err != nil || s != "héllo" {
		t.Fatalf("Text() = %q, %v, want %q, nil", s, err, "héllo")
	}

	b := FromBytes(invalidUTF8)
	if _, err := b.Text(); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("Text() error = %v, want %v", err, ErrInvalidText)
	}
	if b.IsValidText() {
		t.Fatal("IsValidText() = true for invalid bytes")
	}
	// 未校验的视图仍然原样返回字节
	if got := b.AsText(); got != string(invalidUTF8) {
		t.Fatalf("AsText() = %q, want %q", got, invalidUTF8)
	}
}

func TestBytesIsCopy(t *testing.T) {
	b := New("hello")
	c := b.Bytes()
	c[0] = 'j'
	if b.AsText() != "hello" {
		t.Fatalf("mutating Bytes() changed the value: %q", b)
	}
}

func TestIsEmpty(t *testing.T) {
	if !New("").IsEmpty() {
		t.Fatal(`New("").IsEmpty() = false`)
	}
	if !(BinString{}).IsEmpty() {
		t.Fatal("zero value IsEmpty() = false")
	}
	if New("a").IsEmpty() {
		t.Fatal(`New("a").IsEmpty() = true`)
	}
}

func TestEqualCompare(t *testing.T) {
	a, b := New("abc"), CopyBytes([]byte("abc"))
	if !a.Equal(b) || a != b {
		t.Fatal("equal contents should compare equal")
	}
	if New("abc").Compare(New("abd")) != -1 {
		t.Fatal(`Compare("abc", "abd") != -1`)
	}
	if New("b").Compare(New("abc")) != 1 {
		t.Fatal(`Compare("b", "abc") != 1`)
	}
	if FromBytes([]byte{0xff}).Compare(New("z")) != 1 {
		t.Fatal("Compare should order by raw bytes")
	}

	m := map[BinString]int{New("k"): 1}
	if m[CopyBytes([]byte("k"))] != 1 {
		t.Fatal("BinString should work as a map key")
	}
}

func TestClone(t *testing.T) {
	b := New("hello world")
	part := b.MustSlice(0, 5)
	c := part.Clone()
	if !c.Equal(part) {
		t.Fatalf("Clone() = %q, want %q", c, part)
	}
	if unsafe.StringData(c.AsText()) == unsafe.StringData(b.AsText()) {
		t.Fatal("Clone() still shares memory with the parent")
	}
}

func TestFormatting(t *testing.T) {
	b := FromBytes([]byte{'h', 'i', 0xff})
	if got := fmt.Sprintf("%#v", b); got != `binstring.BinString("hi\xff")` {
		t.Fatalf("%%#v = %s", got)
	}
	if got := fmt.Sprint(New("hello")); got != "hello" {
		t.Fatalf("Sprint = %q, want %q", got, "hello")
	}
}

func TestPropertyByteRoundTrip(t *testing.T) {
	f := func(raw []byte) bool {
		b := CopyBytes(raw)
		return bytes.Equal(b.AsBytes(), raw) && b.Len() == len(raw) && b.IsEmpty() == (b.Len() == 0)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func BenchmarkAsBytes(b *testing.B) {
	s := New("benchmark test string")
	for i := 0; i < b.N; i++ {
		_ = s.AsBytes()
	}
}

func BenchmarkFromBytes(b *testing.B) {
	raw := []byte("benchmark test string")
	for i := 0; i < b.N; i++ {
		_ = FromBytes(raw)
	}
}
