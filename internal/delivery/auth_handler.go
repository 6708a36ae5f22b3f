package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type AuthHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc domain.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind register request: %v", err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(req.Name, req.Email, req.Password)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusCreated, "User registered", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind login request: %v", err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.useCase.Login(req.Email, req.Password)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Login successful", gin.H{"token": token})
}
