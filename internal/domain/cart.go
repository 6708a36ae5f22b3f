package domain

import "github.com/shopspring/decimal"

// Cart is created lazily on the first AddItem for a user; at most one
// cart row exists per user.
type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cart_id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// CartView is what GetCart returns: line items with product snapshots
// plus the computed total. A user without a cart row gets an empty view.
type CartView struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CartRepository interface {
	// AddItem creates the user's cart if absent and accumulates quantity
	// when the product is already in the cart.
	AddItem(userID, productID int64, quantity int) (*CartItem, error)
	// GetCart returns nil (not an error) when the user has no cart row.
	GetCart(userID int64) (*Cart, error)
	// UpdateItemQuantity replaces the quantity. The item must belong to a
	// cart owned by userID; otherwise a NotFoundError is returned.
	UpdateItemQuantity(userID, itemID int64, quantity int) (*CartItem, error)
	RemoveItem(userID, itemID int64) error
	// ClearCart is a no-op success when the user has no cart.
	ClearCart(userID int64) error
}

type CartUseCase interface {
	AddItem(userID, productID int64, quantity int) (*CartItem, error)
	GetCart(userID int64) (*CartView, error)
	// UpdateItem returns (nil, nil) when a non-positive quantity removed
	// the item instead of updating it.
	UpdateItem(userID, itemID int64, quantity int) (*CartItem, error)
	RemoveItem(userID, itemID int64) error
	ClearCart(userID int64) error
}
