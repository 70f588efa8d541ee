package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sframe/blobstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-sframe"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "bus/test.sfrm", data))

	blob, err := store.Open(ctx, "bus/test.sfrm")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	part := make([]byte, 5)
	n, err := blob.ReadAt(ctx, part, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part[:n]))

	tail := make([]byte, 10)
	n, err = blob.ReadAt(ctx, tail, 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "world", string(tail[:n]))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "bus/")
	require.NoError(t, err)
	assert.Contains(t, names, "bus/test.sfrm")

	require.NoError(t, store.Delete(ctx, "bus/test.sfrm"))
	_, err = store.Open(ctx, "bus/test.sfrm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
