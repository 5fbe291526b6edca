package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/pkg/lambda"
)

// BrandHandler handles brand HTTP requests
type BrandHandler struct {
	brandService services.BrandService
	logger       *logrus.Logger
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService services.BrandService, logger *logrus.Logger) *BrandHandler {
	return &BrandHandler{brandService: brandService, logger: logger}
}

// HandleCreate creates a brand owned by the caller
// @Summary Create a brand
// @Description Create the caller's brand. The email is taken from the token.
// @Tags brands
// @Accept json
// @Produce json
// @Param brand body models.CreateBrandRequest true "Brand data"
// @Success 201 {object} models.Brand
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands [post]
func (h *BrandHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	payload, err := payloadFrom(req, models.BrandResourceName)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	brand, err := h.brandService.CreateBrand(ctx, identity, payload)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	return lambda.JSON(http.StatusCreated, brand)
}

// HandleList returns every brand
// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {array} models.Brand
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands [get]
func (h *BrandHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	brands, err := h.brandService.ListBrands(ctx)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	if brands == nil {
		brands = []*models.Brand{}
	}
	return lambda.JSON(http.StatusOK, brands)
}

// HandleGetOwn returns the caller's brand
// @Summary Get own brand
// @Tags brands
// @Produce json
// @Success 200 {object} models.Brand
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands/me [get]
func (h *BrandHandler) HandleGetOwn(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	brand, err := h.brandService.GetOwnBrand(ctx, identity)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.JSON(http.StatusOK, brand)
}

// HandleGet returns a brand by ID
// @Summary Get brand by ID
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} models.Brand
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands/{id} [get]
func (h *BrandHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	brand, err := h.brandService.GetBrand(ctx, req.PathParam("id"))
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.JSON(http.StatusOK, brand)
}

// HandleUpdate updates the caller's brand
// @Summary Update brand
// @Tags brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param brand body models.UpdateBrandRequest true "Fields to change"
// @Success 200 {object} models.Brand
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands/{id} [put]
func (h *BrandHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	payload, err := payloadFrom(req, models.BrandResourceName)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	brand, err := h.brandService.UpdateBrand(ctx, identity, req.PathParam("id"), payload)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.JSON(http.StatusOK, brand)
}

// HandleDelete deletes the caller's brand and its products
// @Summary Delete brand
// @Tags brands
// @Param id path string true "Brand ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /brands/{id} [delete]
func (h *BrandHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	identity, err := identityFrom(req)
	if err != nil {
		return errorResponse(h.logger, req, err)
	}

	if err := h.brandService.DeleteBrand(ctx, identity, req.PathParam("id")); err != nil {
		return errorResponse(h.logger, req, err)
	}
	return lambda.NoContent(), nil
}
