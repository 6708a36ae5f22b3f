package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) GetOrderByID(id int64) (*domain.Order, error) {
	order := &domain.Order{}
	orderQuery := `
        SELECT id, user_id, total, status, created_at, updated_at
        FROM orders
        WHERE id = $1`

	err := r.db.QueryRow(orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "order"}
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	itemsMap, err := r.getItemsForOrders([]int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsMap[order.ID]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	return order, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(id int64, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, user_id, total, status, created_at, updated_at`

	updatedOrder := &domain.Order{}
	err := r.db.QueryRow(query, status, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.UserID,
		&updatedOrder.Total,
		&updatedOrder.Status,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found for status update", id)
			return nil, &domain.NotFoundError{Resource: "order"}
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Invalid status value '%s' for order ID %d", status, id)
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid order status: %s", status)}
		}
		r.log.Errorf("Repository: Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	itemsMap, err := r.getItemsForOrders([]int64{updatedOrder.ID})
	if err != nil {
		return nil, err
	}
	updatedOrder.Items = itemsMap[updatedOrder.ID]
	if updatedOrder.Items == nil {
		updatedOrder.Items = []domain.OrderItem{}
	}

	r.log.Infof("Repository: Order %d status updated to '%s'", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(userID int64) ([]domain.Order, error) {
	ordersQuery := `
        SELECT id, user_id, total, status, created_at, updated_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ordersQuery, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order row for user ID %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	if err := r.attachItems(orders, orderIDs); err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d orders for user ID %d", len(orders), userID)
	return orders, nil
}

func (r *postgresOrderRepository) ListAllOrders() ([]domain.Order, error) {
	ordersQuery := `
        SELECT o.id, o.user_id, o.total, o.status, o.created_at, o.updated_at,
               u.id, u.name, u.email
        FROM orders o
        JOIN users u ON u.id = o.user_id
        ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ordersQuery)
	if err != nil {
		r.log.Errorf("Repository: Failed to list all orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		user := &domain.UserSummary{}
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&user.ID,
			&user.Name,
			&user.Email,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order row in all-orders listing: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		order.User = user
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during all-orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	if err := r.attachItems(orders, orderIDs); err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d orders across all users", len(orders))
	return orders, nil
}

func (r *postgresOrderRepository) attachItems(orders []domain.Order, orderIDs []int64) error {
	itemsMap, err := r.getItemsForOrders(orderIDs)
	if err != nil {
		return err
	}
	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return nil
}

func (r *postgresOrderRepository) getItemsForOrders(orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	itemsQuery := `
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
               p.id, p.name, p.description, p.price
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = ANY($1::bigint[])
        ORDER BY oi.order_id, oi.id`

	rows, err := r.db.Query(itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		product := &domain.ProductSummary{}
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item data: %w", err)
		}
		item.Product = product
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsMap, nil
}
