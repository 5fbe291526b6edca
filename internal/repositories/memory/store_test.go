package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories"
)

func newStores(t *testing.T) (*Store[models.Brand], *Store[models.Product]) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	db := NewDB()
	reg, err := models.NewRegistry()
	require.NoError(t, err)

	brands, err := New[models.Brand](db, reg, models.BrandResource(), models.BrandFromDocument, logger)
	require.NoError(t, err)
	products, err := New[models.Product](db, reg, models.ProductResource(), models.ProductFromDocument, logger)
	require.NoError(t, err)
	return brands, products
}

func brandPayload(name string) repositories.Payload {
	return repositories.Payload{"name": name, "bio": "", "website": "", "email": "a@x.io"}
}

func TestStore_BrandCreateGet(t *testing.T) {
	brands, _ := newStores(t)
	ctx := context.Background()

	brand, err := brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "Acme", brand.Name)
	assert.Equal(t, "u1", brand.AuthUserID)
	assert.NotEmpty(t, brand.Created)

	got, err := brands.Get(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, brand, got)

	_, err = brands.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = brands.Get(ctx, "bad")
	assert.ErrorIs(t, err, repositories.ErrInvalidID)
}

func TestStore_DuplicateOwnerIsAtomic(t *testing.T) {
	brands, _ := newStores(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if repositories.IsDuplicateAssociation(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 9, rejected)
}

func TestStore_ProductJoinsBrandName(t *testing.T) {
	brands, products := newStores(t)
	ctx := context.Background()

	brand, err := brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
	require.NoError(t, err)

	product, err := products.Create(ctx,
		repositories.Payload{"name": "Mug", "description": "", "image_filename": "mug.png", "image_bytes": "aGk="},
		repositories.WithColumn("brand_id", brand.ID),
	)
	require.NoError(t, err)
	assert.Equal(t, models.BrandRef{ID: brand.ID, Name: "Acme"}, product.Brand)

	_, err = brands.Update(ctx, brand.ID, repositories.Payload{"name": "Acme Co"})
	require.NoError(t, err)

	got, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", got.Brand.Name)
}

func TestStore_FindBy(t *testing.T) {
	brands, products := newStores(t)
	ctx := context.Background()

	brand, err := brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
	require.NoError(t, err)

	list, err := products.FindBy(ctx, "brand_id", brand.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	for _, name := range []string{"a", "b"} {
		_, err := products.Create(ctx,
			repositories.Payload{"name": name, "description": "", "image_filename": "f.png", "image_bytes": "aGk="},
			repositories.WithColumn("brand_id", brand.ID),
		)
		require.NoError(t, err)
	}

	list, err = products.FindBy(ctx, "brand_id", brand.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	_, err = products.FindBy(ctx, "colour", "red")
	assert.ErrorIs(t, err, repositories.ErrInvalidPayload)
}

func TestStore_UpdateDelete(t *testing.T) {
	brands, _ := newStores(t)
	ctx := context.Background()

	brand, err := brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
	require.NoError(t, err)

	_, err = brands.Update(ctx, brand.ID, repositories.Payload{"id": "x"})
	assert.ErrorIs(t, err, repositories.ErrInvalidPayload)

	_, err = brands.Update(ctx, uuid.NewString(), repositories.Payload{"bio": "x"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	ok, err := brands.Delete(ctx, brand.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = brands.Delete(ctx, brand.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// the owner may create again once the previous brand is gone
	_, err = brands.Create(ctx, brandPayload("Acme"), repositories.WithIdentity(auth.Identity{Subject: "u1"}))
	assert.NoError(t, err)
}

func TestNew_RequiresRegisteredSpec(t *testing.T) {
	_, err := New[models.Brand](NewDB(), records.NewRegistry(), models.BrandResource(), models.BrandFromDocument, nil)
	assert.ErrorIs(t, err, records.ErrUnregistered)

	_, err = New[models.Brand](NewDB(), nil, models.BrandResource(), models.BrandFromDocument, nil)
	assert.Error(t, err)
}
