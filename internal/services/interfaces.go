package services

import (
	"context"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
)

// BrandService defines the brand operations exposed to handlers
type BrandService interface {
	CreateBrand(ctx context.Context, identity auth.Identity, payload repositories.Payload) (*models.Brand, error)
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	GetOwnBrand(ctx context.Context, identity auth.Identity) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]*models.Brand, error)
	UpdateBrand(ctx context.Context, identity auth.Identity, id string, payload repositories.Payload) (*models.Brand, error)
	DeleteBrand(ctx context.Context, identity auth.Identity, id string) error
}

// ProductService defines the product operations exposed to handlers
type ProductService interface {
	CreateProduct(ctx context.Context, identity auth.Identity, payload repositories.Payload) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProducts returns every product, or only those of brandID when it is set
	ListProducts(ctx context.Context, brandID string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, identity auth.Identity, id string, payload repositories.Payload) (*models.Product, error)
	DeleteProduct(ctx context.Context, identity auth.Identity, id string) error
}
