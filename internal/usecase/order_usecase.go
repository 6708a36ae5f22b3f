package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	atomic    domain.AtomicRunner
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, atomic domain.AtomicRunner, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		atomic:    atomic,
		log:       logger,
	}
}

// Checkout turns the user's cart into an order inside a single atomic
// unit: stock pre-check against the locked product rows, order + item
// snapshot creation, conditional stock decrements and cart clearing
// either all commit or none do.
func (uc *orderUseCase) Checkout(ctx context.Context, userID int64) (*domain.Order, error) {
	uc.log.Infof("Use Case: Starting checkout for user %d", userID)

	var created *domain.Order
	err := uc.atomic.RunAtomic(ctx, func(store domain.CheckoutStore) error {
		cart, err := store.CartForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			uc.log.Warnf("Use Case: Checkout rejected for user %d - cart is empty", userID)
			return domain.ErrEmptyCart
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			if item.Quantity > item.Product.Stock {
				uc.log.Warnf("Use Case: Checkout rejected for user %d - product %d has stock %d, requested %d",
					userID, item.ProductID, item.Product.Stock, item.Quantity)
				return &domain.InsufficientStockError{ProductName: item.Product.Name}
			}
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order := &domain.Order{
			UserID: userID,
			Total:  total,
			Status: domain.StatusPending,
			Items:  make([]domain.OrderItem, 0, len(cart.Items)),
		}
		for _, item := range cart.Items {
			order.Items = append(order.Items, domain.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				// Unit price snapshot; later product price changes must
				// not alter the stored order.
				Price: item.Product.Price,
			})
		}

		if err := store.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, item := range cart.Items {
			if err := store.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
				return err
			}
		}
		if err := store.ClearCart(ctx, cart.ID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Checkout completed for user %d - order %d, total %s", userID, created.ID, created.Total)
	return created, nil
}

// PayOrder lets the owning customer move their order from PENDING to
// PAID. Anyone else gets Forbidden; any other current status reports an
// invalid transition citing that status.
func (uc *orderUseCase) PayOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Pay failed - could not load order %d: %v", orderID, err)
		return nil, err
	}

	if order.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to pay order %d owned by user %d", userID, orderID, order.UserID)
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.StatusPending {
		uc.log.Warnf("Use Case: Pay rejected for order %d - current status is %s", orderID, order.Status)
		return nil, &domain.InvalidTransitionError{Current: order.Status}
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(orderID, domain.StatusPaid)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to mark order %d as paid: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d paid by user %d", orderID, userID)
	return updated, nil
}

// UpdateStatus applies an administrative status change. The route layer
// guarantees the caller is an admin; this layer guards the status value
// and the transition itself.
func (uc *orderUseCase) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		uc.log.Warnf("Use Case: Rejected unknown order status '%s' for order %d", status, orderID)
		return nil, &domain.ValidationError{Message: "invalid order status: " + string(status)}
	}
	switch status {
	case domain.StatusShipped, domain.StatusDelivered, domain.StatusCanceled:
	default:
		uc.log.Warnf("Use Case: Status '%s' is not an administrative transition (order %d)", status, orderID)
		return nil, &domain.ValidationError{Message: "status must be one of SHIPPED, DELIVERED, CANCELED"}
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Status update failed - could not load order %d: %v", orderID, err)
		return nil, err
	}

	if !domain.CanTransition(order.Status, status) {
		uc.log.Warnf("Use Case: Illegal transition %s -> %s for order %d", order.Status, status, orderID)
		return nil, &domain.InvalidTransitionError{Current: order.Status}
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(orderID, status)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order %d: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d status updated to %s", orderID, status)
	return updated, nil
}

func (uc *orderUseCase) ListMyOrders(userID int64) ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListOrdersByUserID(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %d: %v", userID, err)
		return nil, err
	}
	return orders, nil
}

func (uc *orderUseCase) ListAllOrders() ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListAllOrders()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list all orders: %v", err)
		return nil, err
	}
	return orders, nil
}
