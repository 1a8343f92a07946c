package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/config"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "a.jpg", "image/jpeg", []byte("data")))
	got, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
	assert.Equal(t, "/uploads/a.jpg", s.URL("a.jpg"))

	require.NoError(t, s.Delete(ctx, "a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "a.jpg"))
}

func TestLocalStoreRejectsPaths(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../x.jpg", "a/b.jpg"} {
		assert.Error(t, s.Put(context.Background(), key, "image/jpeg", []byte("x")), key)
	}
}

func TestS3StoreURL(t *testing.T) {
	s := NewS3Store(&config.S3Config{BucketName: "bucket", Region: "eu-west-2"})
	assert.Equal(t, "https://bucket.s3.eu-west-2.amazonaws.com/donation-items/a.png", s.URL("a.png"))
}
