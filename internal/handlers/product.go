// internal/handlers/product.go
package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/i18n"
	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/services"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

type catalogLister interface {
	ListProducts(ctx context.Context, params services.CatalogParams) ([]models.CatalogProduct, error)
}

type productSubmitter interface {
	SaveProduct(ctx context.Context, in services.SaveProductInput) (services.SaveProductResult, error)
	LoadProduct(ctx context.Context, id uuid.UUID, lang models.Language) (*services.LoadedProduct, error)
}

type mediaUploader interface {
	UploadMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader, mediaType models.MediaType) (*services.UploadResult, error)
}

type ProductHandler struct {
	catalog    catalogLister
	submission productSubmitter
	storage    mediaUploader
	limits     config.CatalogConfig
	now        func() time.Time
}

func NewProductHandler(catalog catalogLister, submission productSubmitter, storage mediaUploader, limits config.CatalogConfig) *ProductHandler {
	return &ProductHandler{
		catalog:    catalog,
		submission: submission,
		storage:    storage,
		limits:     limits,
		now:        time.Now,
	}
}

// SaveProductRequest is the body of a create or update from the seller form.
type SaveProductRequest struct {
	Language  models.Language          `json:"language" validate:"required,content_language"`
	Status    models.ProductStatus     `json:"status" validate:"omitempty,seller_status"`
	Form      services.ProductFormData `json:"form"`
	ImageURLs []string                 `json:"image_urls" validate:"max=10,dive,url"`
	VideoURL  string                   `json:"video_url" validate:"omitempty,url"`
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := h.catalogParams(c)

	active := models.ProductStatusActive
	params.Status = &active

	h.listProducts(c, params)
}

// GET /seller/products
func (h *ProductHandler) GetSellerProducts(c *gin.Context) {
	sellerID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := h.catalogParams(c)
	params.SellerID = &sellerID
	if status, ok := parseStatus(c.Query("status")); ok {
		params.Status = &status
	}

	h.listProducts(c, params)
}

func (h *ProductHandler) listProducts(c *gin.Context, params services.CatalogParams) {
	lang := utils.GetLangFromContext(c)

	rows, err := h.catalog.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	newWindow := time.Duration(h.limits.NewProductDays) * 24 * time.Hour
	products := services.FormatProducts(rows, lang, h.now(), newWindow)

	utils.SuccessResponseWithMeta(c, products, gin.H{
		"count":     len(products),
		"limit":     params.Limit,
		"language":  lang,
		"direction": lang.Direction(),
	})
}

// catalogParams reads the shared list filters. Malformed values are ignored.
func (h *ProductHandler) catalogParams(c *gin.Context) services.CatalogParams {
	params := services.CatalogParams{
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Limit:        h.limits.DefaultLimit,
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			params.CategoryID = &categoryID
		}
	}

	if sellerIDStr := c.Query("seller_id"); sellerIDStr != "" {
		if sellerID, err := uuid.Parse(sellerIDStr); err == nil {
			params.SellerID = &sellerID
		}
	}

	if featuredStr := c.Query("featured"); featuredStr != "" {
		if featured, err := strconv.ParseBool(featuredStr); err == nil {
			params.Featured = &featured
		}
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if h.limits.MaxLimit > 0 && params.Limit > h.limits.MaxLimit {
		params.Limit = h.limits.MaxLimit
	}

	return params
}

// GET /products/:id
//
// Products that are not active are only visible to their seller.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyProductInvalidID, nil)
		return
	}

	loaded, err := h.submission.LoadProduct(c.Request.Context(), id, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(c)
	if loaded.Product.Status != models.ProductStatusActive && loaded.Product.SellerID != userID {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, loaded)
}

// POST /seller/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, nil)
}

// PUT /seller/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyProductInvalidID, nil)
		return
	}

	h.saveProduct(c, &id)
}

func (h *ProductHandler) saveProduct(c *gin.Context, productID *uuid.UUID) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.submission.SaveProduct(c.Request.Context(), services.SaveProductInput{
		UserID:    userID,
		ProductID: productID,
		Form:      req.Form,
		ImageURLs: req.ImageURLs,
		VideoURL:  req.VideoURL,
		Status:    req.Status,
		Language:  req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status, key := http.StatusOK, i18n.KeyProductUpdated
	if productID == nil {
		status, key = http.StatusCreated, i18n.KeyProductCreated
	}
	if len(result.Warnings) > 0 {
		key = i18n.KeyProductSavedWarnings
	}

	utils.MessageResponse(c, status, key, result)
}

// POST /seller/media
func (h *ProductHandler) UploadMedia(c *gin.Context) {
	mediaType := models.MediaType(c.DefaultPostForm("type", string(models.MediaTypeImage)))
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		utils.BadRequestResponse(c, i18n.KeyMediaTypeRejected, nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.KeyMediaMissingFile, nil)
		return
	}
	defer file.Close()

	result, err := h.storage.UploadMedia(c.Request.Context(), file, header, mediaType)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.KeyMediaUploaded, result)
}

// GET /delivery-options/presets
//
// Returns the default option for each delivery type, labelled in all
// supported languages, for the seller form.
func (h *ProductHandler) GetDeliveryPresets(c *gin.Context) {
	types := []models.DeliveryType{models.DeliveryTypeStandard, models.DeliveryTypeExpress, models.DeliveryTypeFree}

	presets := make([]models.DeliveryOption, 0, len(types))
	for _, t := range types {
		presets = append(presets, services.NewDeliveryOption(t))
	}

	utils.SuccessResponseWithMeta(c, presets, gin.H{"max_options": services.MaxDeliveryOptions})
}

func parseStatus(s string) (models.ProductStatus, bool) {
	status := models.ProductStatus(s)
	return status, status.Valid()
}
