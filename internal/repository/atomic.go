package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type atomicStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewAtomicStore wraps the database in a domain.AtomicRunner. Each
// RunAtomic call runs fn inside a single read-committed transaction;
// row locks taken by CartForUpdate serialize checkouts that touch the
// same products.
func NewAtomicStore(db *sql.DB, logger *logrus.Logger) domain.AtomicRunner {
	return &atomicStore{
		db:  db,
		log: logger,
	}
}

func (s *atomicStore) RunAtomic(ctx context.Context, fn func(store domain.CheckoutStore) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			s.log.Warnf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Errorf("Repository: Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				s.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	err = fn(&txCheckoutStore{tx: tx, log: s.log})
	return err
}

// txCheckoutStore implements domain.CheckoutStore against one open
// transaction.
type txCheckoutStore struct {
	tx  *sql.Tx
	log *logrus.Logger
}

func (s *txCheckoutStore) CartForUpdate(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID}

	err := s.tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cart.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.log.Errorf("Repository: Failed to load cart for user %d in checkout: %v", userID, err)
		return nil, fmt.Errorf("could not load cart: %w", err)
	}

	// FOR UPDATE OF p locks the product rows for the whole transaction,
	// so the stock pre-check and the later decrement see the same stock.
	itemsQuery := `
        SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
               p.id, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id = $1
        ORDER BY p.id ASC
        FOR UPDATE OF p`

	rows, err := s.tx.QueryContext(ctx, itemsQuery, cart.ID)
	if err != nil {
		s.log.Errorf("Repository: Failed to lock cart items for cart %d: %v", cart.ID, err)
		return nil, fmt.Errorf("could not load cart items: %w", err)
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
			s.log.Errorf("Repository: Failed to scan locked cart item for cart %d: %v", cart.ID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		item.Product = product
		cart.Items = append(cart.Items, item)
	}
	if err = rows.Err(); err != nil {
		s.log.Errorf("Repository: Error iterating locked cart items for cart %d: %v", cart.ID, err)
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

func (s *txCheckoutStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderQuery := `
        INSERT INTO orders (user_id, total, status)
        VALUES ($1, $2, $3)
        RETURNING id, status, created_at, updated_at`

	err := s.tx.QueryRowContext(ctx, orderQuery, order.UserID, order.Total, order.Status).Scan(
		&order.ID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		s.log.Errorf("Repository: Failed to insert order for user %d: %v", order.UserID, err)
		return fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	stmt, err := s.tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		s.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := stmt.QueryRowContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			s.log.Errorf("Repository: Failed to insert order item (product %d) for order %d: %v", item.ProductID, order.ID, err)
			return fmt.Errorf("could not create order item (product %d): %w", item.ProductID, err)
		}
	}

	s.log.Infof("Repository: Order %d created with %d items for user %d", order.ID, len(order.Items), order.UserID)
	return nil
}

func (s *txCheckoutStore) DecrementStock(ctx context.Context, product *domain.Product, quantity int) error {
	// Conditional on current stock so the invariant stock >= 0 holds even
	// if a competing writer slipped past the row lock.
	query := `
        UPDATE products
        SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND stock >= $2`

	result, err := s.tx.ExecContext(ctx, query, product.ID, quantity)
	if err != nil {
		s.log.Errorf("Repository: Failed to decrement stock for product %d by %d: %v", product.ID, quantity, err)
		return fmt.Errorf("could not decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.log.Errorf("Repository: Failed to get rows affected decrementing stock for product %d: %v", product.ID, err)
		return fmt.Errorf("could not confirm stock decrement: %w", err)
	}
	if rowsAffected == 0 {
		s.log.Warnf("Repository: Stock decrement refused for product %d (requested %d)", product.ID, quantity)
		return &domain.InsufficientStockError{ProductName: product.Name}
	}

	return nil
}

func (s *txCheckoutStore) ClearCart(ctx context.Context, cartID int64) error {
	if _, err := s.tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		s.log.Errorf("Repository: Failed to clear cart %d in checkout: %v", cartID, err)
		return fmt.Errorf("could not clear cart: %w", err)
	}
	return nil
}
