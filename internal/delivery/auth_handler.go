package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	useCase usecase.AuthUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: email and password are required")
		return
	}

	session, err := h.useCase.Login(req.Email, req.Password)
	if err != nil {
		FailWithError(c, "Login failed", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", session)
}
