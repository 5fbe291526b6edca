package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/adapters/storage"
	"marketplace-api/internal/models"
	"marketplace-api/internal/repositories"
	"marketplace-api/internal/repositories/memory"
	"marketplace-api/internal/services"
	"marketplace-api/pkg/lambda"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func setupRouter(t *testing.T) (*Router, *storage.MockFileStorage) {
	t.Helper()
	logger := testLogger()

	db := memory.NewDB()
	reg, err := models.NewRegistry()
	require.NoError(t, err)
	brands, err := memory.New[models.Brand](db, reg, models.BrandResource(), models.BrandFromDocument, logger)
	require.NoError(t, err)
	products, err := memory.New[models.Product](db, reg, models.ProductResource(), models.ProductFromDocument, logger)
	require.NoError(t, err)

	files := storage.NewMockFileStorage()
	container, err := services.NewServiceContainer(&services.Repositories{Brands: brands, Products: products}, files, logger)
	require.NoError(t, err)

	router := NewRouter(logger)
	BrandRoutes(router, NewBrandHandler(container.BrandService, logger))
	ProductRoutes(router, NewProductHandler(container.ProductService, logger))
	return router, files
}

func claimsFor(sub string) map[string]string {
	return map[string]string{"sub": sub, "email": sub + "@example.com"}
}

func call(t *testing.T, r *Router, method, path string, claims map[string]string, body any) (*lambda.Response, map[string]any) {
	t.Helper()

	req := &lambda.Request{Method: method, Path: path, Claims: claims, QueryParams: map[string]string{}}
	switch b := body.(type) {
	case nil:
	case string:
		req.Body = []byte(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		req.Body = data
	}

	resp, err := r.Serve(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	var decoded map[string]any
	if len(resp.Body) > 0 && resp.Body[0] == '{' {
		require.NoError(t, json.Unmarshal(resp.Body, &decoded))
	}
	return resp, decoded
}

func acme() map[string]any {
	return map[string]any{"name": "Acme", "bio": "Mugs and more", "website": "https://acme.io"}
}

func mug() map[string]any {
	return map[string]any{
		"name":           "Mug",
		"description":    "A large mug",
		"image_filename": "mug.png",
		"image_bytes":    base64.StdEncoding.EncodeToString([]byte("png")),
	}
}

func TestBrandLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	resp, body := call(t, r, http.MethodPost, "/brands", claimsFor("u1"), acme())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	id, _ := body["id"].(string)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", body["email"])

	resp, body = call(t, r, http.MethodPost, "/brands", claimsFor("u1"), acme())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "u1")

	resp, body = call(t, r, http.MethodGet, "/brands/me", claimsFor("u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["id"])

	resp, _ = call(t, r, http.MethodGet, "/brands/"+id, claimsFor("u2"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, r, http.MethodPut, "/brands/"+id, claimsFor("u2"), map[string]any{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, r, http.MethodPut, "/brands/"+id, claimsFor("u1"), map[string]any{"name": "Acme Ltd"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Ltd", body["name"])

	resp, _ = call(t, r, http.MethodDelete, "/brands/"+id, claimsFor("u1"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)

	resp, _ = call(t, r, http.MethodGet, "/brands/"+id, claimsFor("u1"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, r, http.MethodGet, "/brands/me", claimsFor("u1"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListBrandsEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	resp, _ := call(t, r, http.MethodGet, "/brands", claimsFor("u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(resp.Body))
}

func TestProductsByBrandEmptyList(t *testing.T) {
	r, _ := setupRouter(t)

	resp, body := call(t, r, http.MethodPost, "/brands", claimsFor("u1"), acme())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := &lambda.Request{
		Method:      http.MethodGet,
		Path:        "/products",
		Claims:      claimsFor("u1"),
		QueryParams: map[string]string{"brand_id": body["id"].(string)},
	}
	resp, err := r.Serve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(resp.Body))
}

func TestProductLifecycle(t *testing.T) {
	r, files := setupRouter(t)

	resp, brand := call(t, r, http.MethodPost, "/brands", claimsFor("u1"), acme())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	brandID := brand["id"].(string)

	resp, product := call(t, r, http.MethodPost, "/products", claimsFor("u1"), mug())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	productID := product["id"].(string)

	nested, ok := product["brand"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, brandID, nested["id"])
	assert.Equal(t, "Acme", nested["name"])

	key := storage.ImageKey(brandID, productID, "mug.png")
	exists, err := files.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, exists)

	resp, _ = call(t, r, http.MethodGet, "/products/"+productID, claimsFor("u2"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, r, http.MethodDelete, "/products/"+productID, claimsFor("u2"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, r, http.MethodDelete, "/products/"+productID, claimsFor("u1"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	exists, err = files.Exists(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateProductWithoutBrand(t *testing.T) {
	r, _ := setupRouter(t)

	resp, _ := call(t, r, http.MethodPost, "/products", claimsFor("nobody"), mug())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestErrors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		claims map[string]string
		body   any
		status int
	}{
		{"missing identity", http.MethodPost, "/brands", nil, acme(), http.StatusUnauthorized},
		{"empty body", http.MethodPost, "/brands", claimsFor("u1"), "", http.StatusBadRequest},
		{"array body", http.MethodPost, "/brands", claimsFor("u1"), "[1,2]", http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/brands", claimsFor("u1"), "{", http.StatusBadRequest},
		{"missing key", http.MethodPost, "/brands", claimsFor("u1"), map[string]any{"name": "Acme"}, http.StatusBadRequest},
		{"extra key", http.MethodPost, "/brands", claimsFor("u1"), map[string]any{"name": "Acme", "bio": "", "website": "", "color": "red"}, http.StatusBadRequest},
		{"invalid id", http.MethodGet, "/brands/not-a-uuid", claimsFor("u1"), nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/brands/" + uuid.NewString(), claimsFor("u1"), nil, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/influencers", claimsFor("u1"), nil, http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/brands", claimsFor("u1"), nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := call(t, r, tt.method, tt.path, tt.claims, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(resp.Body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestErrorResponse_HidesInternalDetail(t *testing.T) {
	req := &lambda.Request{Method: http.MethodGet, Path: "/brands"}
	resp, err := errorResponse(testLogger(), req, fmt.Errorf("query failed: %w", errors.New("password=hunter2")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(resp.Body))
}

func TestErrorResponse_UsesRepositoryMessage(t *testing.T) {
	req := &lambda.Request{Method: http.MethodPost, Path: "/brands"}
	wrapped := fmt.Errorf("failed to create brand: %w", repositories.DuplicateAssociationError("brand", "u1"))

	resp, err := errorResponse(testLogger(), req, wrapped)
	require.NoError(t, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotContains(t, body.Error, "failed to create brand")
	assert.Contains(t, body.Error, "u1")
}

func TestRouterMatch(t *testing.T) {
	params, ok := match(splitPath("/brands/{id}"), splitPath("/brands/abc/"))
	require.True(t, ok)
	assert.Equal(t, "abc", params["id"])

	_, ok = match(splitPath("/brands/{id}"), splitPath("/brands"))
	assert.False(t, ok)

	_, ok = match(splitPath("/brands/me"), splitPath("/brands/you"))
	assert.False(t, ok)
}
