package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
)

// ObjectStorageService defines the interface for object storage operations.
// This interface is implemented by the infrastructure layer (S3, MinIO, etc.)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageServiceConfig holds configuration for the image service
type ImageServiceConfig struct {
	UploadURLExpiry time.Duration
	MaxUploadSize   int64
	PublicBaseURL   string
}

// DefaultImageServiceConfig returns default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		MaxUploadSize:   5 << 20, // 5MB
	}
}

// allowedImageTypes maps accepted content types to file extensions
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageService issues presigned upload URLs for product images and
// attaches uploaded images to products
type ImageService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      ImageServiceConfig
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	config ImageServiceConfig,
	logger *zap.Logger,
) *ImageService {
	if config.UploadURLExpiry == 0 {
		config.UploadURLExpiry = DefaultImageServiceConfig().UploadURLExpiry
	}
	if config.MaxUploadSize == 0 {
		config.MaxUploadSize = DefaultImageServiceConfig().MaxUploadSize
	}
	return &ImageService{
		productRepo: productRepo,
		storage:     storage,
		config:      config,
		logger:      logger,
	}
}

// RequestUploadURL validates the upload request and returns a presigned
// PUT URL the client can upload the image to
func (s *ImageService) RequestUploadURL(ctx context.Context, productID uuid.UUID, req UploadImageRequest) (*UploadImageResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE",
			"Image must be JPEG, PNG, WebP, or GIF")
	}

	if req.SizeBytes > s.config.MaxUploadSize {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE",
			fmt.Sprintf("Image cannot exceed %d bytes", s.config.MaxUploadSize))
	}

	storageKey := fmt.Sprintf("products/%d-%s.%s", time.Now().Unix(), uuid.New().String(), ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}

	return &UploadImageResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		PublicURL:  s.publicURL(storageKey),
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and records its
// URL on the product
func (s *ImageService) ConfirmUpload(ctx context.Context, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if !strings.HasPrefix(storageKey, "products/") || path.Base(storageKey) != strings.TrimPrefix(storageKey, "products/") {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Invalid storage key")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded object", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "Uploaded image was not found in storage")
	}

	if err := product.SetImageURL(s.publicURL(storageKey)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product image", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product image")
	}

	s.logger.Info("Product image attached",
		zap.String("product_id", productID.String()),
		zap.String("storage_key", storageKey))

	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ImageService) publicURL(storageKey string) string {
	if s.config.PublicBaseURL == "" {
		return storageKey
	}
	return strings.TrimSuffix(s.config.PublicBaseURL, "/") + "/" + storageKey
}
