package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/adapters/storage"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
)

// Repositories holds the resource stores the services depend on
type Repositories struct {
	Brands   repositories.Repository[models.Brand]
	Products repositories.Repository[models.Product]
}

// ServiceContainer holds all service instances
type ServiceContainer struct {
	BrandService   BrandService
	ProductService ProductService
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *Repositories, files storage.FileStorage, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil || repos.Brands == nil || repos.Products == nil {
		return nil, fmt.Errorf("brand and product repositories are required")
	}
	if files == nil {
		return nil, fmt.Errorf("file storage is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	v := newValidator()

	brands := &brandService{
		brands:    repos.Brands,
		resource:  models.BrandResource(),
		validator: v,
		logger:    logger,
	}
	products := &productService{
		products:  repos.Products,
		brands:    brands,
		storage:   files,
		resource:  models.ProductResource(),
		validator: v,
		logger:    logger,
	}
	brands.products = products

	return &ServiceContainer{
		BrandService:   brands,
		ProductService: products,
	}, nil
}
