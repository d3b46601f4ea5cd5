package objectstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/ledgerbook/internal/adapters/objectstore"
	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := objectstore.NewFileStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "images/ledger.db", []byte("v1")))
	require.NoError(t, store.Put(ctx, "images/ledger.db", []byte("v2")))

	data, err := store.Get(ctx, "images/ledger.db")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, store.Delete(ctx, "images/ledger.db"))
	require.NoError(t, store.Delete(ctx, "images/ledger.db"))

	_, err = store.Get(ctx, "images/ledger.db")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside", "/abs/path", "."} {
		err := store.Put(ctx, key, []byte("x"))
		assert.ErrorIs(t, err, apperrors.ErrValidation, "key %q", key)
	}
}

func TestFileStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Put(ctx, "k", []byte("x")), context.Canceled)
}
