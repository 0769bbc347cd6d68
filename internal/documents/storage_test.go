package documents

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	key := NewBlobKey()
	got, err := store.Put(key, strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	rc, err := store.Get(key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	require.NoError(t, store.Delete(key))
	_, err = store.Get(key)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(key), "deleting twice is not an error")
}

func TestFSStore_KeysStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	_, err = store.Put("../../escape.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "blobs", "escape.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestFSStore_EmptyKey(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Put("", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewBlobKey(t *testing.T) {
	a, b := NewBlobKey(), NewBlobKey()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "documents/"))
	assert.True(t, strings.HasSuffix(a, ".pdf"))
	assert.Len(t, a, len("documents/")+36+len(".pdf"))
}
