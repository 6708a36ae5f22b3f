package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCanceled  OrderStatus = "CANCELED"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransition encodes the order status machine. DELIVERED and CANCELED
// are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCanceled
	case StatusPaid:
		return to == StatusShipped || to == StatusCanceled
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}

type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	Items     []OrderItem     `json:"items"`
	User      *UserSummary    `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem is immutable after creation; Price is the unit price
// snapshot taken at checkout time.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type OrderRepository interface {
	GetOrderByID(id int64) (*Order, error)
	UpdateOrderStatus(id int64, status OrderStatus) (*Order, error)
	// ListOrdersByUserID returns the user's orders newest first, items
	// and product summaries included.
	ListOrdersByUserID(userID int64) ([]Order, error)
	// ListAllOrders is the admin projection across all users, purchaser
	// identity included.
	ListAllOrders() ([]Order, error)
}

// CheckoutStore is the view of the store available inside one atomic
// checkout. Every call acts on the same underlying transaction.
type CheckoutStore interface {
	// CartForUpdate loads the cart with items and current product rows,
	// locking the product rows so concurrent checkouts on the same
	// products serialize. Returns nil when the user has no cart.
	CartForUpdate(ctx context.Context, userID int64) (*Cart, error)
	CreateOrder(ctx context.Context, order *Order) error
	// DecrementStock subtracts quantity only when stock >= quantity,
	// failing with an InsufficientStockError otherwise.
	DecrementStock(ctx context.Context, product *Product, quantity int) error
	ClearCart(ctx context.Context, cartID int64) error
}

// AtomicRunner applies fn all-or-nothing: if fn returns an error nothing
// it did through the store is persisted.
type AtomicRunner interface {
	RunAtomic(ctx context.Context, fn func(store CheckoutStore) error) error
}

type OrderUseCase interface {
	Checkout(ctx context.Context, userID int64) (*Order, error)
	PayOrder(ctx context.Context, userID, orderID int64) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status OrderStatus) (*Order, error)
	ListMyOrders(userID int64) ([]Order, error)
	ListAllOrders() ([]Order, error)
}
