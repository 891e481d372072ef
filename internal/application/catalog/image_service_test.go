package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/shared"
)

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func newTestImageService(productRepo *MockProductRepository, storage *MockObjectStorage) *ImageService {
	cfg := DefaultImageServiceConfig()
	cfg.PublicBaseURL = "https://cdn.example.com"
	return NewImageService(productRepo, storage, cfg, zap.NewNop())
}

func TestImageService_RequestUploadURL(t *testing.T) {
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	svc := newTestImageService(productRepo, storage)

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	expiresAt := time.Now().Add(15 * time.Minute)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	storage.On("GenerateUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/") && strings.HasSuffix(key, ".png")
	}), "image/png", 15*time.Minute).Return("https://s3.example.com/presigned", expiresAt, nil)

	resp, err := svc.RequestUploadURL(context.Background(), product.ID, UploadImageRequest{
		FileName:    "bottle.png",
		ContentType: "image/png",
		SizeBytes:   1 << 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/presigned", resp.UploadURL)
	assert.True(t, strings.HasPrefix(resp.PublicURL, "https://cdn.example.com/products/"))
	assert.Equal(t, expiresAt, resp.ExpiresAt)
}

func TestImageService_RequestUploadURL_RejectsBadType(t *testing.T) {
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	svc := newTestImageService(productRepo, storage)

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := svc.RequestUploadURL(context.Background(), product.ID, UploadImageRequest{
		FileName:    "manual.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNSUPPORTED_IMAGE_TYPE", domainErr.Code)
}

func TestImageService_RequestUploadURL_RejectsOversized(t *testing.T) {
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	svc := newTestImageService(productRepo, storage)

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := svc.RequestUploadURL(context.Background(), product.ID, UploadImageRequest{
		FileName:    "huge.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   6 << 20,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "IMAGE_TOO_LARGE", domainErr.Code)
}

func TestImageService_ConfirmUpload(t *testing.T) {
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	svc := newTestImageService(productRepo, storage)

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	storageKey := "products/1700000000-abc.png"

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Update", mock.Anything, product).Return(nil)
	storage.On("ObjectExists", mock.Anything, storageKey).Return(true, nil)

	resp, err := svc.ConfirmUpload(context.Background(), product.ID, storageKey)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/"+storageKey, resp.ImageURL)
}

func TestImageService_ConfirmUpload_MissingObject(t *testing.T) {
	productRepo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	svc := newTestImageService(productRepo, storage)

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	storageKey := "products/1700000000-missing.png"

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	storage.On("ObjectExists", mock.Anything, storageKey).Return(false, nil)

	_, err := svc.ConfirmUpload(context.Background(), product.ID, storageKey)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
