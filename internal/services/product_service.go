package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"marketplace-api/internal/adapters/storage"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
)

// productService implements the ProductService interface
type productService struct {
	products  repositories.Repository[models.Product]
	brands    *brandService
	storage   storage.FileStorage
	resource  *repositories.Resource
	validator *validator.Validate
	logger    *logrus.Logger
}

// CreateProduct creates a product under the caller's brand and uploads its image
func (s *productService) CreateProduct(ctx context.Context, identity auth.Identity, payload repositories.Payload) (*models.Product, error) {
	brand, err := s.ownBrand(ctx, identity)
	if err != nil {
		return nil, err
	}

	if _, err := repositories.ValidateCreatePayload(s.resource, payload, nil); err != nil {
		return nil, err
	}

	var req models.CreateProductRequest
	if err := bindPayload(s.validator, "create", s.resource.Name, payload, &req); err != nil {
		return nil, err
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBytes)
	if err != nil {
		return nil, repositories.PayloadError("create", s.resource.Name, "invalid payload: image_bytes must be base64 encoded")
	}

	productID := repositories.NewID()
	key := storage.ImageKey(brand.ID, productID, req.ImageFilename)

	if err := s.storage.Store(ctx, key, image, &storage.StoreOptions{
		ContentType: storage.ContentTypeFor(req.ImageFilename),
	}); err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	product, err := s.products.Create(ctx, payload,
		repositories.WithID(productID),
		repositories.WithColumn("brand_id", brand.ID),
	)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil && !storage.IsNotFound(delErr) {
			s.logger.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned product image")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"brand_id":   brand.ID,
		"image_key":  key,
		"image_size": len(image),
	}).Info("Product created")
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts lists products, optionally restricted to one brand
func (s *productService) ListProducts(ctx context.Context, brandID string) ([]*models.Product, error) {
	var (
		products []*models.Product
		err      error
	)
	if brandID == "" {
		products, err = s.products.GetAll(ctx)
	} else {
		products, err = s.products.FindBy(ctx, "brand_id", brandID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateProduct updates a product of the caller's brand
func (s *productService) UpdateProduct(ctx context.Context, identity auth.Identity, id string, payload repositories.Payload) (*models.Product, error) {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return nil, err
	}

	var req models.UpdateProductRequest
	if err := bindPayload(s.validator, "update", s.resource.Name, payload, &req); err != nil {
		return nil, err
	}

	product, err := s.products.Update(ctx, id, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct deletes a product of the caller's brand and its image
func (s *productService) DeleteProduct(ctx context.Context, identity auth.Identity, id string) error {
	product, err := s.authorize(ctx, identity, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, product)
}

// remove deletes the product row, then its image. A missing image is not an error.
func (s *productService) remove(ctx context.Context, product *models.Product) error {
	deleted, err := s.products.Delete(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return repositories.NotFoundError(s.resource.Name, product.ID)
	}

	if product.Image.Filename == "" {
		return nil
	}

	key := storage.ImageKey(product.Brand.ID, product.ID, product.Image.Filename)
	if err := s.storage.Delete(ctx, key); err != nil && !storage.IsNotFound(err) {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to delete product image")
	}
	return nil
}

// authorize loads the product and checks it belongs to the caller's brand
func (s *productService) authorize(ctx context.Context, identity auth.Identity, id string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	brand, err := s.ownBrand(ctx, identity)
	if err != nil {
		return nil, err
	}

	if product.Brand.ID != brand.ID {
		return nil, repositories.NewRepositoryError("authorize", s.resource.Name, id, repositories.ErrForbidden)
	}
	return product, nil
}

// ownBrand returns the caller's brand. Callers without one may not manage products.
func (s *productService) ownBrand(ctx context.Context, identity auth.Identity) (*models.Brand, error) {
	brand, err := s.brands.GetOwnBrand(ctx, identity)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, &repositories.RepositoryError{
				Op:      "authorize",
				Entity:  s.resource.Name,
				Err:     repositories.ErrForbidden,
				Message: fmt.Sprintf("user %s has no brand", identity.Subject),
			}
		}
		return nil, err
	}
	return brand, nil
}
