package delivery

import (
	"errors"
	"net/http"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status    string                  `json:"Status"`
	Message   string                  `json:"Message"`
	Data      interface{}             `json:"Data,omitempty"`
	Errors    domain.ValidationErrors `json:"Errors,omitempty"`
	Retryable bool                    `json:"retryable,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// FailWithError writes err with the status it maps to. Field errors are
// listed under Errors; an unavailable catalog is marked retryable.
func FailWithError(c *gin.Context, message string, err error) {
	resp := Response{
		Status:  "Fail",
		Message: message + ": " + err.Error(),
	}
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Message = message
		resp.Errors = verrs
	}
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		resp.Message = "Products are temporarily unavailable, please try again"
		resp.Retryable = true
	}
	c.JSON(mapErrorToStatus(err), resp)
}

func mapErrorToStatus(err error) int {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFeaturedLimit), errors.Is(err, domain.ErrCategoryExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidSortField), errors.Is(err, domain.ErrInvalidDirection), errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
