package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter, authMW gin.HandlerFunc) {
	cart := router.Group("/cart", authMW)
	{
		cart.POST("/add", h.AddItem)
		cart.GET("", h.GetCart)
		cart.PUT("/:id", h.UpdateItem)
		cart.DELETE("/:id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

type AddToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	// Pointer so zero and negative quantities reach the use case, where
	// they mean "remove the item".
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind add-to-cart request: %v", err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.AddItem(currentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Product added to cart", item)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.useCase.GetCart(currentUserID(c))
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Cart retrieved", view)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, h.log)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind update cart item request: %v", err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.UpdateItem(currentUserID(c), itemID, *req.Quantity)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	if item == nil {
		Success(c, http.StatusOK, "Cart item removed", nil)
		return
	}
	Success(c, http.StatusOK, "Cart item updated", item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, h.log)
	if !ok {
		return
	}

	if err := h.useCase.RemoveItem(currentUserID(c), itemID); err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Cart item removed", nil)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.useCase.ClearCart(currentUserID(c)); err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Cart cleared", nil)
}
