package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "upload")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	path, err := store.Save("notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = store.Save("notes.txt", strings.NewReader("again"))
	require.NoError(t, err)
	got, _ = os.ReadFile(path)
	assert.Equal(t, "again", string(got))
}

func TestLocalStoreSaveFailure(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(filepath.Join("missing", "dir", "x.txt"), strings.NewReader("x"))
	assert.Error(t, err)
}
