package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubArtifactStorage(t *testing.T) {
	ctx := context.Background()
	stub := NewStubArtifactStorage()

	t.Run("upload and exists", func(t *testing.T) {
		err := stub.Upload(ctx, "documents/invoice/FAC-2026-0001.pdf", []byte("%PDF-1.4"), "application/pdf")
		require.NoError(t, err)

		exists, err := stub.ObjectExists(ctx, "documents/invoice/FAC-2026-0001.pdf")
		require.NoError(t, err)
		assert.True(t, exists)

		data, ok := stub.GetObject("documents/invoice/FAC-2026-0001.pdf")
		require.True(t, ok)
		assert.Equal(t, []byte("%PDF-1.4"), data)
	})

	t.Run("upload requires a key", func(t *testing.T) {
		assert.Error(t, stub.Upload(ctx, "", []byte("x"), "application/pdf"))
	})

	t.Run("download URL for stored object", func(t *testing.T) {
		url, expiresAt, err := stub.GenerateDownloadURL(ctx, "documents/invoice/FAC-2026-0001.pdf", 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "stub://documents/invoice/FAC-2026-0001.pdf", url)
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("download URL for missing object fails", func(t *testing.T) {
		_, _, err := stub.GenerateDownloadURL(ctx, "documents/invoice/missing.pdf", 0)
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, stub.DeleteObject(ctx, "documents/invoice/FAC-2026-0001.pdf"))
		exists, err := stub.ObjectExists(ctx, "documents/invoice/FAC-2026-0001.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
