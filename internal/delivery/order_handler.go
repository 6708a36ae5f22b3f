package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	orders := router.Group("/orders", authMW)
	{
		orders.POST("/checkout", h.Checkout)
		orders.GET("/my-orders", h.GetMyOrders)
		orders.POST("/:id/pay", h.PayOrder)

		admin := orders.Group("", adminMW)
		{
			admin.GET("/all", h.GetAllOrders)
			admin.PUT("/:id/status", h.UpdateOrderStatus)
		}
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := currentUserID(c)

	order, err := h.useCase.Checkout(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.useCase.ListMyOrders(currentUserID(c))
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Orders retrieved", orders)
}

func (h *OrderHandler) PayOrder(c *gin.Context) {
	orderID, ok := pathID(c, h.log)
	if !ok {
		return
	}

	order, err := h.useCase.PayOrder(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Order paid", order)
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.useCase.ListAllOrders()
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Orders retrieved", orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, h.log)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind update status request for order %d: %v", orderID, err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Order status updated", order)
}
