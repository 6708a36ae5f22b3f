package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCartRepository) AddItem(userID, productID int64, quantity int) (*domain.CartItem, error) {
	// Lazily create the cart; the DO UPDATE no-op makes the id come back
	// whether the row was inserted or already existed.
	cartQuery := `
        INSERT INTO carts (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id`

	var cartID int64
	if err := r.db.QueryRow(cartQuery, userID).Scan(&cartID); err != nil {
		r.log.Errorf("Repository: Failed to get or create cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not get or create cart: %w", err)
	}

	// Same product already in the cart accumulates quantity rather than
	// replacing it.
	itemQuery := `
        INSERT INTO cart_items (cart_id, product_id, quantity)
        VALUES ($1, $2, $3)
        ON CONFLICT (cart_id, product_id)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
        RETURNING id, cart_id, product_id, quantity`

	item := &domain.CartItem{}
	err := r.db.QueryRow(itemQuery, cartID, productID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	)
	if err != nil {
		r.log.Errorf("Repository: Failed to add item (product %d, quantity %d) to cart %d: %v", productID, quantity, cartID, err)
		return nil, fmt.Errorf("could not add item to cart: %w", err)
	}

	r.log.Infof("Repository: Cart item upserted for user %d: product %d, quantity now %d", userID, productID, item.Quantity)
	return item, nil
}

func (r *postgresCartRepository) GetCart(userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID}

	err := r.db.QueryRow(`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cart.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Repository: No cart row for user %d", userID)
			return nil, nil
		}
		r.log.Errorf("Repository: Failed to get cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not get cart: %w", err)
	}

	itemsQuery := `
        SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
               p.id, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id = $1
        ORDER BY ci.id ASC`

	rows, err := r.db.Query(itemsQuery, cart.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query cart items for cart %d: %v", cart.ID, err)
		return nil, fmt.Errorf("could not retrieve cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		product := &domain.Product{}
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan cart item row for cart %d: %v", cart.ID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		item.Product = product
		cart.Items = append(cart.Items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during cart items iteration for cart %d: %v", cart.ID, err)
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d cart items for user %d", len(cart.Items), userID)
	return cart, nil
}

func (r *postgresCartRepository) UpdateItemQuantity(userID, itemID int64, quantity int) (*domain.CartItem, error) {
	// Ownership is checked by joining through carts; an item in someone
	// else's cart reads as not found rather than forbidden.
	query := `
        UPDATE cart_items ci
        SET quantity = $3
        FROM carts c
        WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $1
        RETURNING ci.id, ci.cart_id, ci.product_id, ci.quantity`

	item := &domain.CartItem{}
	err := r.db.QueryRow(query, userID, itemID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Cart item %d not found for user %d", itemID, userID)
			return nil, &domain.NotFoundError{Resource: "cart item"}
		}
		r.log.Errorf("Repository: Failed to update cart item %d for user %d: %v", itemID, userID, err)
		return nil, fmt.Errorf("could not update cart item: %w", err)
	}

	r.log.Infof("Repository: Cart item %d quantity set to %d for user %d", itemID, quantity, userID)
	return item, nil
}

func (r *postgresCartRepository) RemoveItem(userID, itemID int64) error {
	query := `
        DELETE FROM cart_items ci
        USING carts c
        WHERE ci.id = $2 AND ci.cart_id = c.id AND c.user_id = $1`

	result, err := r.db.Exec(query, userID, itemID)
	if err != nil {
		r.log.Errorf("Repository: Failed to remove cart item %d for user %d: %v", itemID, userID, err)
		return fmt.Errorf("could not remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected removing cart item %d: %v", itemID, err)
		return fmt.Errorf("could not confirm cart item removal: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Cart item %d not found for user %d on remove", itemID, userID)
		return &domain.NotFoundError{Resource: "cart item"}
	}

	r.log.Infof("Repository: Cart item %d removed for user %d", itemID, userID)
	return nil
}

func (r *postgresCartRepository) ClearCart(userID int64) error {
	query := `
        DELETE FROM cart_items ci
        USING carts c
        WHERE ci.cart_id = c.id AND c.user_id = $1`

	// Clearing a cart that does not exist yet is a success, not an error.
	if _, err := r.db.Exec(query, userID); err != nil {
		r.log.Errorf("Repository: Failed to clear cart for user %d: %v", userID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}

	r.log.Infof("Repository: Cart cleared for user %d", userID)
	return nil
}
