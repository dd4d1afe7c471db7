package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("hello attachment")
	path, err := store.Save("report.pdf", payload)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "report.pdf"))

	data, err := store.Open(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	require.NoError(t, store.Remove(path))
	_, err = store.Open(path)
	assert.Error(t, err)
}

func TestSaveSanitizesNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "passwd"), "path traversal segments stripped: %s", path)
	assert.NotContains(t, filepath.Base(path), "/")

	path, err = store.Save("we ird$name!.txt", []byte("x"))
	require.NoError(t, err)
	assert.NotContains(t, filepath.Base(path), " ")
	assert.NotContains(t, filepath.Base(path), "$")
}

func TestOpenRejectsPathsOutsideRoot(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("/etc/passwd")
	assert.Error(t, err)
	assert.Error(t, store.Remove("/etc/passwd"))
}
