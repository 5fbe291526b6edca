package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"

	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories"
)

// ProductResourceName is the registry and error name for products
const ProductResourceName = "product"

// BrandRef is the brand summary embedded in a product
type BrandRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product represents an item listed by a brand
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Image        Image    `json:"image"`
	Brand        BrandRef `json:"brand"`
	Created      string   `json:"created"`
}

// CreateProductRequest carries the field rules for a product create payload
type CreateProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageFilename string `json:"image_filename" validate:"required,max=255,excludesall=/\\"`
	ImageBytes    string `json:"image_bytes" validate:"required,base64"`
}

// UpdateProductRequest carries the field rules for a product update payload
type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
}

// ProductResource returns the product table definition. brand_name is
// read from the owning brand.
func ProductResource() *repositories.Resource {
	return &repositories.Resource{
		Name:  ProductResourceName,
		Table: "products",
		Columns: []repositories.Column{
			{Name: "id", Hint: types.TypeHintUuid},
			{Name: "name", Writable: true, Updatable: true},
			{Name: "description", Writable: true, Updatable: true},
			{Name: "requirements", Updatable: true},
			{Name: "image_filename", Writable: true},
			{Name: "brand_id", Hint: types.TypeHintUuid},
			{Name: "brand_name", Join: &repositories.Join{Table: "brands", LocalKey: "brand_id", Column: "name"}},
			{Name: "created", Hint: types.TypeHintTimestamp},
		},
		Nests: []records.Nest{
			{Key: "image", Fields: []records.NestField{{From: "image_filename", To: "filename"}}},
			{Key: "brand", Fields: []records.NestField{
				{From: "brand_id", To: "id"},
				{From: "brand_name", To: "name"},
			}},
		},
		CreateKeys: []string{"name", "description", "image_filename", "image_bytes"},
	}
}

// ProductFromDocument maps a projected product document
func ProductFromDocument(doc records.Document) (*Product, error) {
	if doc.String("id") == "" {
		return nil, fmt.Errorf("%s document has no id", ProductResourceName)
	}
	brand := doc.Sub("brand")
	return &Product{
		ID:           doc.String("id"),
		Name:         doc.String("name"),
		Description:  doc.String("description"),
		Requirements: doc.String("requirements"),
		Image:        Image{Filename: doc.Sub("image").String("filename")},
		Brand:        BrandRef{ID: brand.String("id"), Name: brand.String("name")},
		Created:      doc.String("created"),
	}, nil
}

// RegisterResources adds the brand and product column specs to reg
func RegisterResources(reg *records.Registry) error {
	for _, res := range []*repositories.Resource{BrandResource(), ProductResource()} {
		if err := reg.Register(res.ColumnSpec()); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every marketplace resource
func NewRegistry() (*records.Registry, error) {
	reg := records.NewRegistry()
	if err := RegisterResources(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
