package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if got, _ := Slice(data, 1, 3); cap(got) != 3 {
		t.Fatalf("Slice should clip capacity, got cap %d", cap(got))
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 5, 0) {
		t.Fatalf("Has should accept an empty range at the end")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestGrow(t *testing.T) {
	b := Grow(nil, 10)
	if len(b) != 0 || cap(b) < 10 {
		t.Fatalf("Grow(nil,10): len=%d cap=%d", len(b), cap(b))
	}
	b = append(b, []byte("hello")...)
	before := cap(b)
	b = Grow(b, 1)
	if cap(b) != before {
		t.Fatalf("Grow should not reallocate when capacity suffices")
	}
	b = Grow(b, before)
	if cap(b) < 2*before || string(b) != "hello" {
		t.Fatalf("Grow lost data or did not double: %q cap=%d", b, cap(b))
	}
}
