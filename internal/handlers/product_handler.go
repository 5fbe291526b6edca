package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/pkg/lambda"
)

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	productService services.ProductService
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService services.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

// HandleCreate creates a product under the caller's brand
// @Summary Create a product
// @Description Create a product for the caller's brand. The image is sent base64 encoded.
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	payload, err := payloadFrom(req, models.ProductResourceName)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	product, err := h.productService.CreateProduct(ctx, identity, payload)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	return lambda.JSON(http.StatusCreated, product)
}

// HandleList lists products, optionally filtered by brand
// @Summary List products
// @Tags products
// @Produce json
// @Param brand_id query string false "Only products of this brand"
// @Success 200 {array} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	products, err := h.productService.ListProducts(ctx, req.Query("brand_id"))
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return lambda.JSON(http.StatusOK, products)
}

// HandleGet returns a product by ID
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	product, err := h.productService.GetProduct(ctx, req.PathParam("id"))
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.JSON(http.StatusOK, product)
}

// HandleUpdate updates a product of the caller's brand
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	payload, err := payloadFrom(req, models.ProductResourceName)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	product, err := h.productService.UpdateProduct(ctx, identity, req.PathParam("id"), payload)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.JSON(http.StatusOK, product)
}

// HandleDelete deletes a product and its stored image
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	if err := h.productService.DeleteProduct(ctx, identity, req.PathParam("id")); err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.NoContent(), nil
}
