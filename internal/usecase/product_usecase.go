package usecase

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		log:         logger,
	}
}

func validateProduct(product *domain.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return &domain.ValidationError{Message: "product name cannot be empty"}
	}
	if product.Price.IsNegative() {
		return &domain.ValidationError{Message: "product price cannot be negative"}
	}
	if product.Stock < 0 {
		return &domain.ValidationError{Message: "product stock cannot be negative"}
	}
	return nil
}

func (uc *productUseCase) CreateProduct(product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Product validation failed on create: %v", err)
		return nil, err
	}
	return uc.productRepo.CreateProduct(product)
}

func (uc *productUseCase) GetProductByID(id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, &domain.ValidationError{Message: "invalid product ID"}
	}
	return uc.productRepo.GetProductByID(id)
}

func (uc *productUseCase) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	if product.ID <= 0 {
		return nil, &domain.ValidationError{Message: "invalid product ID"}
	}
	if err := validateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Product validation failed on update (ID %d): %v", product.ID, err)
		return nil, err
	}
	return uc.productRepo.UpdateProduct(product)
}

func (uc *productUseCase) DeleteProduct(id int64) error {
	if id <= 0 {
		return &domain.ValidationError{Message: "invalid product ID"}
	}
	return uc.productRepo.DeleteProduct(id)
}

func (uc *productUseCase) ListProducts(limit, offset int) ([]domain.Product, error) {
	return uc.productRepo.ListProducts(limit, offset)
}
