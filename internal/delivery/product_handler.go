package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes keeps reads public and gates mutations behind the auth
// and admin middlewares.
func (h *ProductHandler) RegisterRoutes(router gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)

		admin := products.Group("", authMW, adminMW)
		{
			admin.POST("", h.CreateProduct)
			admin.PUT("/:id", h.UpdateProduct)
			admin.DELETE("/:id", h.DeleteProduct)
		}
	}
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind create product request: %v", err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	created, err := h.useCase.CreateProduct(product)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusCreated, "Product created", created)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}

	product, err := h.useCase.GetProductByID(id)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Product retrieved", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind update product request for ID %d: %v", id, err)
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	product := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	updated, err := h.useCase.UpdateProduct(product)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Product updated", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}

	if err := h.useCase.DeleteProduct(id); err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.useCase.ListProducts(limit, offset)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Products retrieved", products)
}

// pathID parses the :id path parameter, writing the 400 itself on
// malformed input.
func pathID(c *gin.Context, log *logrus.Logger) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Warnf("Handler: Invalid ID parameter: %s", idStr)
		Error(c, http.StatusBadRequest, "invalid ID format")
		return 0, false
	}
	return id, true
}
