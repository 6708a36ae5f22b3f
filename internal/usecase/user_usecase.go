package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   domain.TokenIssuer
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens domain.TokenIssuer, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo: repo,
		tokens:   tokens,
		log:      logger,
	}
}

func (uc *userUseCase) Register(name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		uc.log.Warn("Use Case: Registration failed - empty name")
		return nil, &domain.ValidationError{Message: "user name cannot be empty"}
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, &domain.ValidationError{Message: "invalid email format"}
	}
	if len(password) < 8 {
		uc.log.Warn("Use Case: Registration failed - password too short")
		return nil, &domain.ValidationError{Message: "password must be at least 8 characters long"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	newUser := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleCustomer,
	}

	createdUser, err := uc.userRepo.CreateUser(newUser)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Email: %s", createdUser.ID, createdUser.Email)
	return createdUser, nil
}

func (uc *userUseCase) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	if !isValidEmail(email) || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
			return "", domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", email, user.ID)
			return "", domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", email, err)
		return "", fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to issue token for user %d: %v", user.ID, err)
		return "", fmt.Errorf("could not issue token: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", email, user.ID)
	return token, nil
}

// isValidEmail provides a basic check for email format.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}
