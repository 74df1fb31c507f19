package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.PATCH("/:name", h.RenameCategory)
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type renameCategoryRequest struct {
	Label string `json:"label"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		FailWithError(c, "Failed to create category", err)
		return
	}

	h.log.Infof("Category created successfully: %s", created.Name)
	SuccessResponse(c, http.StatusCreated, "Category created successfully", created)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories := h.useCase.ListCategories(c.Request.Context())
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// RenameCategory changes how a category is displayed. Products keep their
// category value.
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	name := c.Param("name")

	var req renameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for rename category %s: %v", name, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	renamed, err := h.useCase.RenameCategory(c.Request.Context(), name, req.Label)
	if err != nil {
		FailWithError(c, "Failed to rename category", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Category renamed successfully", renamed)
}
