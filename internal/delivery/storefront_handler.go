package delivery

import (
	"net/http"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StorefrontHandler serves the public, read-only catalog.
type StorefrontHandler struct {
	useCase usecase.StorefrontUseCase
	log     *logrus.Logger
}

func NewStorefrontHandler(uc usecase.StorefrontUseCase, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *StorefrontHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/featured", h.Featured)
		api.GET("/categories", h.Categories)
	}
}

func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	if isTruthy(c.Query("raw")) {
		products, err := h.useCase.RawProducts(c.Request.Context())
		if err != nil {
			FailWithError(c, "Failed to retrieve products", err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	criteria, err := usecase.ParseCriteria(c.Request.URL.Query())
	if err != nil {
		FailWithError(c, "Invalid filter", err)
		return
	}

	// ?category=printers selects the canonical "Printers". An unknown value
	// is kept as-is and matches nothing.
	if criteria.Category != "" {
		name, ok, err := h.useCase.ResolveCategory(c.Request.Context(), criteria.Category)
		if err != nil {
			FailWithError(c, "Failed to retrieve products", err)
			return
		}
		if ok {
			criteria.Category = name
		}
	}

	var sort domain.SortState
	if raw := c.Query("sort"); raw != "" {
		if sort.Field, err = usecase.ParseSortField(raw); err != nil {
			FailWithError(c, "Invalid sort", err)
			return
		}
		if sort.Direction, err = usecase.ParseSortDirection(c.Query("direction")); err != nil {
			FailWithError(c, "Invalid sort", err)
			return
		}
	}

	listing, err := h.useCase.ListProducts(c.Request.Context(), criteria, sort)
	if err != nil {
		FailWithError(c, "Failed to retrieve products", err)
		return
	}

	if listing.Shown == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", listing)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", listing)
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	product, err := h.useCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailWithError(c, "Failed to retrieve product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *StorefrontHandler) Featured(c *gin.Context) {
	section, err := h.useCase.FeaturedSection(c.Request.Context())
	if err != nil {
		FailWithError(c, "Failed to retrieve featured products", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Featured products retrieved successfully", section)
}

func (h *StorefrontHandler) Categories(c *gin.Context) {
	categories, err := h.useCase.Categories(c.Request.Context())
	if err != nil {
		FailWithError(c, "Failed to retrieve categories", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
