package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
)

// brandService implements the BrandService interface
type brandService struct {
	brands    repositories.Repository[models.Brand]
	products  *productService
	resource  *repositories.Resource
	validator *validator.Validate
	logger    *logrus.Logger
}

// CreateBrand creates the caller's brand. A caller owns at most one brand.
func (s *brandService) CreateBrand(ctx context.Context, identity auth.Identity, payload repositories.Payload) (*models.Brand, error) {
	resolved, err := repositories.ValidateCreatePayload(s.resource, payload, &identity)
	if err != nil {
		return nil, err
	}

	var req models.CreateBrandRequest
	if err := bindPayload(s.validator, "create", s.resource.Name, resolved, &req); err != nil {
		return nil, err
	}

	brand, err := s.brands.Create(ctx, payload, repositories.WithIdentity(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"brand_id": brand.ID,
		"owner":    identity.Subject,
	}).Info("Brand created")
	return brand, nil
}

// GetBrand retrieves a brand by ID
func (s *brandService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	brand, err := s.brands.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return brand, nil
}

// GetOwnBrand retrieves the brand owned by identity
func (s *brandService) GetOwnBrand(ctx context.Context, identity auth.Identity) (*models.Brand, error) {
	brands, err := s.brands.FindBy(ctx, s.resource.OwnerColumn, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}
	if len(brands) == 0 {
		return nil, &repositories.RepositoryError{
			Op:      "get",
			Entity:  s.resource.Name,
			Err:     repositories.ErrNotFound,
			Message: fmt.Sprintf("user %s has no %s", identity.Subject, s.resource.Name),
		}
	}
	return brands[0], nil
}

// ListBrands lists every brand in creation order
func (s *brandService) ListBrands(ctx context.Context) ([]*models.Brand, error) {
	brands, err := s.brands.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// UpdateBrand updates a brand owned by identity
func (s *brandService) UpdateBrand(ctx context.Context, identity auth.Identity, id string, payload repositories.Payload) (*models.Brand, error) {
	if err := s.authorize(ctx, identity, id); err != nil {
		return nil, err
	}

	var req models.UpdateBrandRequest
	if err := bindPayload(s.validator, "update", s.resource.Name, payload, &req); err != nil {
		return nil, err
	}

	brand, err := s.brands.Update(ctx, id, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return brand, nil
}

// DeleteBrand deletes a brand owned by identity together with its products
func (s *brandService) DeleteBrand(ctx context.Context, identity auth.Identity, id string) error {
	if err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	products, err := s.products.ListProducts(ctx, id)
	if err != nil {
		return err
	}
	for _, product := range products {
		if err := s.products.remove(ctx, product); err != nil {
			return err
		}
	}

	deleted, err := s.brands.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if !deleted {
		return repositories.NotFoundError(s.resource.Name, id)
	}

	s.logger.WithFields(logrus.Fields{
		"brand_id": id,
		"products": len(products),
	}).Info("Brand deleted")
	return nil
}

// authorize checks that the brand exists and is owned by identity
func (s *brandService) authorize(ctx context.Context, identity auth.Identity, id string) error {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return err
	}
	if brand.AuthUserID != identity.Subject {
		return repositories.NewRepositoryError("authorize", s.resource.Name, id, repositories.ErrForbidden)
	}
	return nil
}
