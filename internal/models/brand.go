package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/records"
	"marketplace-api/internal/repositories"
)

// BrandResourceName is the registry and error name for brands
const BrandResourceName = "brand"

// Image references a stored file
type Image struct {
	Filename string `json:"filename"`
}

// Brand represents a seller brand owned by one user
type Brand struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	Website    string `json:"website"`
	Email      string `json:"email"`
	Image      Image  `json:"image"`
	Created    string `json:"created"`
	AuthUserID string `json:"auth_user_id"`
}

// CreateBrandRequest types a brand create payload. Brand fields are free-form
// strings: the key set alone decides whether a create is accepted.
type CreateBrandRequest struct {
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// UpdateBrandRequest types a brand update payload
type UpdateBrandRequest struct {
	Name    *string `json:"name"`
	Bio     *string `json:"bio"`
	Website *string `json:"website"`
	Email   *string `json:"email"`
}

// BrandResource returns the brand table definition
func BrandResource() *repositories.Resource {
	return &repositories.Resource{
		Name:  BrandResourceName,
		Table: "brands",
		Columns: []repositories.Column{
			{Name: "id", Hint: types.TypeHintUuid},
			{Name: "name", Writable: true, Updatable: true},
			{Name: "bio", Writable: true, Updatable: true},
			{Name: "website", Writable: true, Updatable: true},
			{Name: "email", Writable: true, Updatable: true},
			{Name: "image_filename", Writable: true, Updatable: true},
			{Name: "created", Hint: types.TypeHintTimestamp},
			{Name: "auth_user_id"},
		},
		Nests: []records.Nest{
			{Key: "image", Fields: []records.NestField{{From: "image_filename", To: "filename"}}},
		},
		CreateKeys:  []string{"name", "bio", "website", "email"},
		OverrideKey: "email",
		OverrideValue: func(id auth.Identity) string {
			return id.Email
		},
		OwnerColumn: "auth_user_id",
	}
}

// BrandFromDocument maps a projected brand document
func BrandFromDocument(doc records.Document) (*Brand, error) {
	if doc.String("id") == "" {
		return nil, fmt.Errorf("%s document has no id", BrandResourceName)
	}
	return &Brand{
		ID:         doc.String("id"),
		Name:       doc.String("name"),
		Bio:        doc.String("bio"),
		Website:    doc.String("website"),
		Email:      doc.String("email"),
		Image:      Image{Filename: doc.Sub("image").String("filename")},
		Created:    doc.String("created"),
		AuthUserID: doc.String("auth_user_id"),
	}, nil
}
