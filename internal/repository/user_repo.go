package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	r.log.Debugf("Repository: Attempting to create user with email: %s", user.Email)

	err := r.db.QueryRow(query, user.Name, user.Email, user.PasswordHash, user.Role).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create user with duplicate email: %s", user.Email)
			return nil, domain.ErrEmailTaken
		}
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created successfully with ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE email = $1`
	user := &domain.User{}

	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with email %s not found", email)
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		r.log.Errorf("Repository: Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return user, nil
}

func (r *postgresUserRepository) GetUserByID(id int64) (*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE id = $1`
	user := &domain.User{}

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}
