package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMapPutGet(t *testing.T) {
	m := NewKeyMap[int](4)
	m.Put(KeyOf("a/A"), 1)
	m.Put(KeyOf("b/B"), 2)
	m.Put(KeyOf("a/A"), 3)

	v, ok := m.Get(KeyOf("a/A"))
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, m.Len())

	_, ok = m.Get(KeyOf("c/C"))
	assert.False(t, ok)
}

func TestKeyMapCollisionBucket(t *testing.T) {
	m := NewKeyMap[string](1)
	a, b := KeyOf("x/One"), KeyOf("x/Two")
	// Force both keys into one bucket to exercise byte-wise comparison.
	b.hash = a.hash
	m.Put(a, "one")
	m.Put(b, "two")
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "one", got)
	got, ok = m.Get(b)
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	m.Delete(a)
	_, ok = m.Get(a)
	assert.False(t, ok)
	got, ok = m.Get(b)
	assert.True(t, ok)
	assert.Equal(t, "two", got)
	assert.Equal(t, 1, m.Len())
}

func TestKeyMapNilIsEmpty(t *testing.T) {
	var m *KeyMap[int]
	_, ok := m.Get(KeyOf("a/A"))
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	m.Range(func(Key, int) bool {
		t.Fatal("nil map should not iterate")
		return false
	})
}

func TestKeyMapGetOrPutRangeClear(t *testing.T) {
	m := NewKeyMap[[]string](0)
	calls := 0
	mk := func() []string { calls++; return []string{"x"} }
	m.GetOrPut(KeyOf("a/A"), mk)
	m.GetOrPut(KeyOf("a/A"), mk)
	assert.Equal(t, 1, calls)

	m.Put(KeyOf("b/B"), nil)
	seen := map[string]bool{}
	m.Range(func(k Key, _ []string) bool {
		seen[k.String()] = true
		return true
	})
	assert.Equal(t, map[string]bool{"a/A": true, "b/B": true}, seen)

	m.Clear()
	assert.Equal(t, 0, m.Len())
	m.Delete(KeyOf("missing/M"))
}

func TestKeyMapZeroValueIsUsable(t *testing.T) {
	var m KeyMap[string]
	m.Delete(KeyOf("a/A"))
	m.Clear()
	m.Put(KeyOf("a/A"), "x")
	assert.Equal(t, "y", m.GetOrPut(KeyOf("b/B"), func() string { return "y" }))

	v, ok := m.Get(KeyOf("a/A"))
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, 2, m.Len())
}
