//go:build linux || darwin

package mmfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapClassFile(t *testing.T) {
	want := []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x41}
	path := filepath.Join(t.TempDir(), "Probe.class")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, release, err := Map(path)
	require.NoError(t, err)
	assert.Equal(t, want, data)
	require.NoError(t, release())
}

func TestMapLargerThanPage(t *testing.T) {
	want := bytes.Repeat([]byte("PK\x03\x04"), 5000)
	path := filepath.Join(t.TempDir(), "lib.jar")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, release, err := Map(path)
	require.NoError(t, err)
	defer release()
	assert.True(t, bytes.Equal(want, data), "mapped bytes differ")
}

func TestMapEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Empty.class")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, release, err := Map(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	require.NotNil(t, release)
	assert.NoError(t, release())
}

func TestMapReleaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Twice.class")
	require.NoError(t, os.WriteFile(path, []byte{0xca, 0xfe, 0xba, 0xbe}, 0o644))

	_, release, err := Map(path)
	require.NoError(t, err)
	require.NoError(t, release())
	assert.NoError(t, release())
}

func TestMapMissingFile(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "missing.jar"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
