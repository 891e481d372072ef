package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_URLs(t *testing.T) {
	store := NewStubObjectStorage()

	uploadURL, expiresAt, err := store.GenerateUploadURL(context.Background(), "products/p1.jpg", "image/jpeg", 10*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, uploadURL, "products/p1.jpg")
	assert.True(t, expiresAt.After(time.Now()))

	downloadURL, _, err := store.GenerateDownloadURL(context.Background(), "products/p1.jpg", 10*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, downloadURL, "/download/products/p1.jpg")

	_, _, err = store.GenerateUploadURL(context.Background(), "", "image/jpeg", time.Minute)
	assert.Error(t, err)
}

func TestStubObjectStorage_ExistenceTracking(t *testing.T) {
	store := NewStubObjectStorage()

	exists, err := store.ObjectExists(context.Background(), "products/p1.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	store.MarkUploaded("products/p1.jpg")

	exists, err = store.ObjectExists(context.Background(), "products/p1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteObject(context.Background(), "products/p1.jpg"))

	exists, err = store.ObjectExists(context.Background(), "products/p1.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}
