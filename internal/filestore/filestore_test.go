package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootcare/support-platform/internal/errs"
)

func TestSaveWritesFileAndReturnsPublicURL(t *testing.T) {
	store, err := New(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	url, size, err := store.Save("receipt.PDF", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveIgnoresClientSuppliedPath(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "http://localhost:8080")
	require.NoError(t, err)

	url, _, err := store.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)

	name := filepath.Base(url)
	assert.NotContains(t, name, "..")
	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store, err := New(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	big := strings.NewReader(strings.Repeat("a", MaxUploadSize+1))
	_, _, err = store.Save("big.bin", big)
	assert.True(t, errs.IsValidation(err))

	entries, readErr := os.ReadDir(store.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
