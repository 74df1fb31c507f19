package delivery

import (
	"io"
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProductHandler serves the admin product table.
type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/export", h.ExportProducts)
		products.POST("/import", h.ImportProducts)
		products.POST("/sort", h.SortProducts)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.POST("/:id/featured", h.ToggleFeatured)
	}
	router.GET("/stats", h.Stats)
}

type sortRequest struct {
	Field     string `json:"field" binding:"required"`
	Direction string `json:"direction"`
}

type productListResponse struct {
	Products []domain.Product        `json:"products"`
	Sort     domain.SortState        `json:"sort"`
	Stats    usecase.CatalogStats    `json:"stats"`
	Featured usecase.FeaturedSection `json:"featured"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input usecase.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.log.Warnf("Failed to create product '%s': %v", input.Name, err)
		FailWithError(c, "Failed to create product", err)
		return
	}

	h.log.Infof("Product created successfully: ID %s, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		FailWithError(c, "Failed to retrieve product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Errorf("Failed to bind JSON for update product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields provided for update")
		return
	}

	updated, err := h.useCase.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		h.log.Warnf("Failed to update product ID %s: %v", id, err)
		FailWithError(c, "Failed to update product", err)
		return
	}

	h.log.Infof("Product updated successfully: ID %s", updated.ID)
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %s: %v", id, err)
		FailWithError(c, "Failed to delete product", err)
		return
	}

	h.log.Infof("Product deleted successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) ToggleFeatured(c *gin.Context) {
	id := c.Param("id")
	product, err := h.useCase.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		FailWithError(c, "Failed to update featured status", err)
		return
	}

	message := "Product removed from featured"
	if product.Featured {
		message = "Product added to featured"
	}
	SuccessResponse(c, http.StatusOK, message, product)
}

func (h *ProductHandler) SortProducts(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	field, err := usecase.ParseSortField(req.Field)
	if err != nil {
		FailWithError(c, "Failed to sort products", err)
		return
	}

	var (
		products []domain.Product
		state    domain.SortState
	)
	if req.Direction == "" {
		products, state, err = h.useCase.ToggleSort(c.Request.Context(), field)
	} else {
		var direction domain.SortDirection
		if direction, err = usecase.ParseSortDirection(req.Direction); err == nil {
			products, err = h.useCase.SortProducts(c.Request.Context(), field, direction)
			state = domain.SortState{Field: field, Direction: direction}
		}
	}
	if err != nil {
		FailWithError(c, "Failed to sort products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Products sorted successfully", gin.H{"products": products, "sort": state})
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		FailWithError(c, "Failed to retrieve products", err)
		return
	}

	h.log.Debugf("Retrieved %d products for admin table", len(products))
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", productListResponse{
		Products: products,
		Sort:     h.useCase.SortState(),
		Stats:    usecase.ComputeStats(products),
		Featured: usecase.BuildFeaturedSection(products),
	})
}

func (h *ProductHandler) Stats(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", h.useCase.Stats(c.Request.Context()))
}

// ImportProducts accepts a CSV file either as the raw body or as the "file"
// field of a multipart form. Any other content type is read as raw CSV.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var body io.Reader = c.Request.Body
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Multipart upload must carry a \"file\" field")
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Could not read uploaded file: "+err.Error())
			return
		}
		defer f.Close()
		body = f
	}

	report, err := h.useCase.ImportProducts(c.Request.Context(), body)
	if err != nil {
		h.log.Warnf("Product import failed: %v", err)
		FailWithError(c, "Failed to import products", err)
		return
	}

	status := http.StatusOK
	if report.Imported > 0 {
		status = http.StatusCreated
	}
	SuccessResponse(c, status, "Import finished", report)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	if err := h.useCase.ProductsCSV(c.Request.Context(), c.Writer); err != nil {
		h.log.Errorf("Failed to export products: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to export products")
	}
}
