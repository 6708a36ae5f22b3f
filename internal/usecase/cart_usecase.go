package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) AddItem(userID, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		uc.log.Warnf("Use Case: Rejected non-positive quantity %d for add-to-cart (user %d)", quantity, userID)
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	// The product must exist before it can go into a cart; stock is not
	// checked here, only at checkout.
	if _, err := uc.productRepo.GetProductByID(productID); err != nil {
		uc.log.Warnf("Use Case: Add-to-cart failed for user %d, product %d: %v", userID, productID, err)
		return nil, err
	}

	item, err := uc.cartRepo.AddItem(userID, productID, quantity)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to add item for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Added product %d to cart of user %d (quantity now %d)", productID, userID, item.Quantity)
	return item, nil
}

func (uc *cartUseCase) GetCart(userID int64) (*domain.CartView, error) {
	cart, err := uc.cartRepo.GetCart(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to get cart for user %d: %v", userID, err)
		return nil, err
	}

	view := &domain.CartView{
		Items: []domain.CartItem{},
		Total: decimal.Zero,
	}
	if cart == nil {
		// No cart row yet is a valid empty cart, not an error.
		return view, nil
	}

	view.Items = cart.Items
	for _, item := range cart.Items {
		view.Total = view.Total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return view, nil
}

func (uc *cartUseCase) UpdateItem(userID, itemID int64, quantity int) (*domain.CartItem, error) {
	// Setting a non-positive quantity removes the item instead of
	// persisting it.
	if quantity <= 0 {
		uc.log.Infof("Use Case: Quantity %d for cart item %d removes it (user %d)", quantity, itemID, userID)
		if err := uc.cartRepo.RemoveItem(userID, itemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item, err := uc.cartRepo.UpdateItemQuantity(userID, itemID, quantity)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update cart item %d for user %d: %v", itemID, userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Cart item %d quantity set to %d for user %d", itemID, quantity, userID)
	return item, nil
}

func (uc *cartUseCase) RemoveItem(userID, itemID int64) error {
	if err := uc.cartRepo.RemoveItem(userID, itemID); err != nil {
		uc.log.Warnf("Use Case: Failed to remove cart item %d for user %d: %v", itemID, userID, err)
		return err
	}
	return nil
}

func (uc *cartUseCase) ClearCart(userID int64) error {
	if err := uc.cartRepo.ClearCart(userID); err != nil {
		uc.log.Errorf("Use Case: Failed to clear cart for user %d: %v", userID, err)
		return err
	}
	return nil
}
