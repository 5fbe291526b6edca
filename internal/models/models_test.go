package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/records"
)

func TestBrandFromDocument(t *testing.T) {
	spec := BrandResource().ColumnSpec()
	row := []any{"b1", "Acme", "Mugs", "https://acme.io", "hi@acme.io", "logo.png", "2024-01-02 03:04:05", "u1"}

	doc, err := records.Project(spec, row)
	require.NoError(t, err)

	brand, err := BrandFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, &Brand{
		ID:         "b1",
		Name:       "Acme",
		Bio:        "Mugs",
		Website:    "https://acme.io",
		Email:      "hi@acme.io",
		Image:      Image{Filename: "logo.png"},
		Created:    "2024-01-02 03:04:05",
		AuthUserID: "u1",
	}, brand)
}

func TestProductFromDocument(t *testing.T) {
	spec := ProductResource().ColumnSpec()
	row := []any{"p1", "Mug", "A mug", "", "mug.png", "b1", "Acme", "2024-01-02 03:04:05"}

	doc, err := records.Project(spec, row)
	require.NoError(t, err)

	product, err := ProductFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "mug.png", product.Image.Filename)
	assert.Equal(t, BrandRef{ID: "b1", Name: "Acme"}, product.Brand)
	assert.Empty(t, product.Requirements)
}

func TestFromDocument_RequiresID(t *testing.T) {
	_, err := BrandFromDocument(records.Document{"name": "Acme"})
	assert.Error(t, err)

	_, err = ProductFromDocument(records.Document{})
	assert.Error(t, err)
}

func TestResources(t *testing.T) {
	brand := BrandResource()
	require.NoError(t, brand.Validate())
	assert.Equal(t, "auth_user_id", brand.OwnerColumn)
	assert.Equal(t, "owner@acme.io", brand.OverrideValue(auth.Identity{Subject: "u1", Email: "owner@acme.io"}))

	product := ProductResource()
	require.NoError(t, product.Validate())
	assert.Contains(t, product.CreateKeys, "image_bytes")

	reg := records.NewRegistry()
	require.NoError(t, RegisterResources(reg))
	assert.Equal(t, []string{"brand", "product"}, reg.Names())
	assert.Error(t, RegisterResources(reg))
}
