package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductSummary is the denormalized product shape embedded in order items.
type ProductSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int64) (*Product, error)
	UpdateProduct(product *Product) (*Product, error)
	DeleteProduct(id int64) error
	ListProducts(limit, offset int) ([]Product, error)
}

type ProductUseCase interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int64) (*Product, error)
	UpdateProduct(product *Product) (*Product, error)
	DeleteProduct(id int64) error
	ListProducts(limit, offset int) ([]Product, error)
}
