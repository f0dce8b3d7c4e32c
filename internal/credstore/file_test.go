package credstore

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	store := NewFileStore(dir)

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "missing file should read as empty")

	require.NoError(t, store.Set(TokenKey, "T"))

	value, ok, err := NewFileStore(dir).Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", value)

	require.NoError(t, store.Delete(TokenKey))
	_, ok, err = store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreDeleteMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	assert.NoError(t, store.Delete(TokenKey))

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "deleting a missing key should not create the file")
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Set("other", "x"))
	require.NoError(t, store.Set(TokenKey, "T"))
	require.NoError(t, store.Delete(TokenKey))

	value, ok, err := store.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", value)
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := filepath.Join(t.TempDir(), "home")
	store := NewFileStore(dir)
	require.NoError(t, store.Set(TokenKey, "T"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	_, _, err := NewFileStore(dir).Get(TokenKey)
	require.Error(t, err)

	var pdErr *errors.PressdeskError
	require.True(t, stderrors.As(err, &pdErr))
	assert.Equal(t, errors.ErrCodeFileUnmarshal, pdErr.Code)
}

func TestFileStoreDeleteResetsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"auth_token": "T",`), 0o600))

	store := NewFileStore(dir)
	require.NoError(t, store.Delete(TokenKey))

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "auth_token")
}

func TestFileStoreEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), nil, 0o600))

	_, ok, err := NewFileStore(dir).Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreConcurrentWrites(t *testing.T) {
	store := NewFileStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Set(TokenKey, "T"))
		}()
	}
	wg.Wait()

	value, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", value)
}

func TestMemoryStore(t *testing.T) {
	var store Store = NewMemoryStore()

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(TokenKey, "T"))
	value, ok, _ := store.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "T", value)

	require.NoError(t, store.Delete(TokenKey))
	require.NoError(t, store.Delete(TokenKey))
	_, ok, _ = store.Get(TokenKey)
	assert.False(t, ok)
}
