package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, stock)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query, product.Name, product.Description, product.Price, product.Stock).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, &domain.ValidationError{Message: "product data constraint violation: " + pqErr.Message}
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Repository: Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(id int64) (*domain.Product, error) {
	query := `
        SELECT id, name, description, price, stock, created_at, updated_at
        FROM products
        WHERE id = $1`
	product := &domain.Product{}

	err := r.db.QueryRow(query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "product"}
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, stock = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, product.Name, product.Description, product.Price, product.Stock, product.ID).Scan(
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found for update", product.ID)
			return nil, &domain.NotFoundError{Resource: "product"}
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation updating product ID %d: %s", product.ID, pqErr.Message)
			return nil, &domain.ValidationError{Message: "product data constraint violation: " + pqErr.Message}
		}
		r.log.Errorf("Repository: Failed to update product ID %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	r.log.Infof("Repository: Product updated successfully with ID: %d", product.ID)
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		// Products referenced by an order are pinned by the order_items
		// foreign key and must not disappear under historical orders.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to delete product ID %d referenced by existing orders", id)
			return &domain.ValidationError{Message: "product is referenced by existing orders and cannot be deleted"}
		}
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return &domain.NotFoundError{Resource: "product"}
	}

	r.log.Infof("Repository: Product deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, name, description, price, stock, created_at, updated_at
        FROM products
        ORDER BY id ASC
        LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products with limit %d, offset %d: %v", limit, offset, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Infof("Repository: Retrieved %d products (limit: %d, offset: %d)", len(products), limit, offset)
	return products, nil
}
