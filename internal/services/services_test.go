package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/adapters/storage"
	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
	"marketplace-api/internal/repositories/memory"
)

var (
	owner    = auth.Identity{Subject: "u1", Email: "owner@acme.io"}
	stranger = auth.Identity{Subject: "u2", Email: "other@acme.io"}
)

func setupServices(t *testing.T) (*ServiceContainer, *storage.MockFileStorage) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db := memory.NewDB()
	reg, err := models.NewRegistry()
	require.NoError(t, err)
	brands, err := memory.New[models.Brand](db, reg, models.BrandResource(), models.BrandFromDocument, logger)
	require.NoError(t, err)
	products, err := memory.New[models.Product](db, reg, models.ProductResource(), models.ProductFromDocument, logger)
	require.NoError(t, err)

	files := storage.NewMockFileStorage()
	container, err := NewServiceContainer(&Repositories{Brands: brands, Products: products}, files, logger)
	require.NoError(t, err)
	return container, files
}

func brandPayload() repositories.Payload {
	return repositories.Payload{"name": "Acme", "bio": "Mugs", "website": "https://acme.io", "email": "hi@acme.io"}
}

func productPayload() repositories.Payload {
	return repositories.Payload{
		"name":           "Mug",
		"description":    "A mug",
		"image_filename": "mug.png",
		"image_bytes":    base64.StdEncoding.EncodeToString([]byte("png-bytes")),
	}
}

func TestBrandService_CreateBrand(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	brand, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)
	assert.Equal(t, "Acme", brand.Name)
	assert.Equal(t, "u1", brand.AuthUserID)

	_, err = svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	assert.ErrorIs(t, err, repositories.ErrDuplicateAssociation)
}

func TestBrandService_CreateBrandValidation(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload repositories.Payload
	}{
		{"missing bio", repositories.Payload{"name": "Acme", "website": "", "email": "a@b.io"}},
		{"number for name", repositories.Payload{"name": 12.0, "bio": "", "website": "", "email": "a@b.io"}},
		{"extra key", repositories.Payload{"name": "Acme", "bio": "", "website": "", "email": "a@b.io", "x": "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BrandService.CreateBrand(ctx, owner, tt.payload)
			assert.ErrorIs(t, err, repositories.ErrInvalidPayload)
		})
	}
}

func TestBrandService_CreateBrandAcceptsAnyValuesForExactKeys(t *testing.T) {
	tests := []struct {
		name    string
		payload repositories.Payload
	}{
		{"website without scheme", repositories.Payload{"name": "Acme", "bio": "", "website": "acme.test", "email": "a@b.io"}},
		{"free-form email", repositories.Payload{"name": "Acme", "bio": "", "website": "", "email": "contact-us"}},
		{"empty name", repositories.Payload{"name": "", "bio": "", "website": "", "email": "a@b.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupServices(t)
			brand, err := svc.BrandService.CreateBrand(context.Background(), owner, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.payload["website"], brand.Website)
			assert.Equal(t, tt.payload["email"], brand.Email)
		})
	}
}

func TestBrandService_EmailFallsBackToIdentity(t *testing.T) {
	svc, _ := setupServices(t)
	payload := brandPayload()
	delete(payload, "email")

	brand, err := svc.BrandService.CreateBrand(context.Background(), owner, payload)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, brand.Email)
}

func TestBrandService_OwnershipRules(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	brand, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)

	mine, err := svc.BrandService.GetOwnBrand(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, brand.ID, mine.ID)

	_, err = svc.BrandService.GetOwnBrand(ctx, stranger)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.BrandService.UpdateBrand(ctx, stranger, brand.ID, repositories.Payload{"name": "Hijacked"})
	assert.ErrorIs(t, err, repositories.ErrForbidden)

	updated, err := svc.BrandService.UpdateBrand(ctx, owner, brand.ID, repositories.Payload{"name": "Acme Co"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", updated.Name)

	assert.ErrorIs(t, svc.BrandService.DeleteBrand(ctx, stranger, brand.ID), repositories.ErrForbidden)
	assert.NoError(t, svc.BrandService.DeleteBrand(ctx, owner, brand.ID))

	_, err = svc.BrandService.GetBrand(ctx, brand.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductService_CreateProductUploadsImage(t *testing.T) {
	svc, files := setupServices(t)
	ctx := context.Background()

	brand, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)

	product, err := svc.ProductService.CreateProduct(ctx, owner, productPayload())
	require.NoError(t, err)
	assert.Equal(t, models.BrandRef{ID: brand.ID, Name: "Acme"}, product.Brand)
	assert.Equal(t, "mug.png", product.Image.Filename)

	key := storage.ImageKey(brand.ID, product.ID, "mug.png")
	data, err := files.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", files.ContentType(key))

	require.NoError(t, svc.ProductService.DeleteProduct(ctx, owner, product.ID))
	assert.Equal(t, 0, files.FileCount())
}

func TestProductService_CreateProductRequiresBrand(t *testing.T) {
	svc, files := setupServices(t)

	_, err := svc.ProductService.CreateProduct(context.Background(), stranger, productPayload())
	assert.ErrorIs(t, err, repositories.ErrForbidden)
	assert.Equal(t, 0, files.FileCount())
}

func TestProductService_CreateProductRejectsBadImage(t *testing.T) {
	svc, files := setupServices(t)
	ctx := context.Background()

	_, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)

	payload := productPayload()
	payload["image_bytes"] = "%%%"
	_, err = svc.ProductService.CreateProduct(ctx, owner, payload)
	assert.ErrorIs(t, err, repositories.ErrInvalidPayload)

	payload = productPayload()
	payload["image_filename"] = "../../etc/passwd"
	_, err = svc.ProductService.CreateProduct(ctx, owner, payload)
	assert.ErrorIs(t, err, repositories.ErrInvalidPayload)

	assert.Equal(t, 0, files.FileCount())
}

func TestProductService_StorageFailureLeavesNoProduct(t *testing.T) {
	svc, files := setupServices(t)
	ctx := context.Background()

	_, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)

	files.FailStore = storage.NewStorageError("Store", "", storage.ErrStorageUnavailable, false)
	_, err = svc.ProductService.CreateProduct(ctx, owner, productPayload())
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)

	all, err := svc.ProductService.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductService_ListProducts(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	brand, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)

	list, err := svc.ProductService.ListProducts(ctx, brand.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.ProductService.CreateProduct(ctx, owner, productPayload())
	require.NoError(t, err)

	list, err = svc.ProductService.ListProducts(ctx, brand.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.ProductService.ListProducts(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductService_UpdateAndDeleteOwnership(t *testing.T) {
	svc, files := setupServices(t)
	ctx := context.Background()

	_, err := svc.BrandService.CreateBrand(ctx, owner, brandPayload())
	require.NoError(t, err)
	_, err = svc.BrandService.CreateBrand(ctx, stranger, brandPayload())
	require.NoError(t, err)

	product, err := svc.ProductService.CreateProduct(ctx, owner, productPayload())
	require.NoError(t, err)

	_, err = svc.ProductService.UpdateProduct(ctx, stranger, product.ID, repositories.Payload{"name": "x"})
	assert.ErrorIs(t, err, repositories.ErrForbidden)

	updated, err := svc.ProductService.UpdateProduct(ctx, owner, product.ID, repositories.Payload{"requirements": "Handle with care"})
	require.NoError(t, err)
	assert.Equal(t, "Handle with care", updated.Requirements)

	_, err = svc.ProductService.UpdateProduct(ctx, owner, product.ID, repositories.Payload{"brand_id": uuid.NewString()})
	assert.ErrorIs(t, err, repositories.ErrInvalidPayload)

	assert.ErrorIs(t, svc.ProductService.DeleteProduct(ctx, stranger, product.ID), repositories.ErrForbidden)

	// deleting the brand removes its products and their images
	mine, err := svc.BrandService.GetOwnBrand(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, svc.BrandService.DeleteBrand(ctx, owner, mine.ID))
	assert.Equal(t, 0, files.FileCount())

	_, err = svc.ProductService.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
