package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOfMatchesUtf8Layout(t *testing.T) {
	k := KeyOf("com/acme/Lib")
	b := k.Bytes()
	require.Len(t, b, 2+len("com/acme/Lib"))
	assert.Equal(t, byte(0), b[0])
	assert.Equal(t, byte(len("com/acme/Lib")), b[1])
	assert.Equal(t, "com/acme/Lib", string(k.Payload()))
	assert.Equal(t, "com/acme/Lib", k.String())
}

func TestKeyEqualityIgnoresBackingBuffer(t *testing.T) {
	shared := append([]byte("junk"), KeyOf("java/lang/Object").Bytes()...)
	shared = append(shared, []byte("tail")...)
	windowed := NewKey(shared, 4, 2+len("java/lang/Object"))

	owned := KeyOf("java/lang/Object")
	assert.True(t, windowed.Equal(owned))
	assert.True(t, owned.Equal(windowed))
	assert.Equal(t, owned.Hash(), windowed.Hash())

	assert.False(t, owned.Equal(KeyOf("java/lang/Objects")))
	assert.False(t, owned.Equal(KeyOf("java/lang/Obj")))
}

func TestKeyClone(t *testing.T) {
	backing := KeyOf("a/B").Bytes()
	scratch := append([]byte(nil), backing...)
	k := NewKey(scratch, 0, len(scratch))
	c := k.Clone()
	scratch[2] = 'z'
	assert.Equal(t, "a/B", c.String())
	assert.Equal(t, KeyOf("a/B").Hash(), c.Hash())
	assert.True(t, Key{}.Clone().IsZero())
}

func TestNewKeyOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { NewKey(make([]byte, 4), 2, 3) })
	assert.Panics(t, func() { NewKey(make([]byte, 4), -1, 1) })
	assert.NotPanics(t, func() { NewKey(make([]byte, 4), 4, 0) })
}

func TestEncodeKeyTooLong(t *testing.T) {
	long := make([]byte, maxUtf8Len+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeKey(string(long))
	require.Error(t, err)
	assert.Panics(t, func() { KeyOf(string(long)) })
}

func TestKeyNonASCII(t *testing.T) {
	k := KeyOf("com/acme/Ünïcode")
	assert.Equal(t, "com/acme/Ünïcode", k.String())
	assert.Greater(t, k.Len(), 2+len("com/acme/Unicode"))
}
