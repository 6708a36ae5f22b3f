package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type mockUserRepo struct {
	createdUser *domain.User
	createErr   error

	user   *domain.User
	getErr error
}

func (m *mockUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	user.ID = 1
	m.createdUser = user
	return user, nil
}

func (m *mockUserRepo) GetUserByEmail(_ string) (*domain.User, error) {
	return m.user, m.getErr
}

func (m *mockUserRepo) GetUserByID(_ int64) (*domain.User, error) {
	return m.user, m.getErr
}

type stubIssuer struct {
	token  string
	userID int64
	role   domain.Role
}

func (s *stubIssuer) Issue(userID int64, role domain.Role) (string, error) {
	s.userID = userID
	s.role = role
	return s.token, nil
}

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{}
	uc := NewUserUseCase(repo, &stubIssuer{}, testLogger())

	user, err := uc.Register("Alice", "  Alice@Example.COM ", "supersecret1")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	// Stored hash must verify against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.createdUser.PasswordHash), []byte("supersecret1")))
}

func TestRegister_InvalidEmail(t *testing.T) {
	uc := NewUserUseCase(&mockUserRepo{}, &stubIssuer{}, testLogger())

	for _, email := range []string{"", "alice", "alice@", "@example.com", "alice@example"} {
		_, err := uc.Register("Alice", email, "supersecret1")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr, "email %q", email)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := NewUserUseCase(&mockUserRepo{}, &stubIssuer{}, testLogger())

	_, err := uc.Register("Alice", "alice@example.com", "short")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRegister_EmptyName(t *testing.T) {
	uc := NewUserUseCase(&mockUserRepo{}, &stubIssuer{}, testLogger())

	_, err := uc.Register("   ", "alice@example.com", "supersecret1")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{createErr: domain.ErrEmailTaken}
	uc := NewUserUseCase(repo, &stubIssuer{}, testLogger())

	_, err := uc.Register("Alice", "alice@example.com", "supersecret1")

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockUserRepo{
		user: &domain.User{ID: 42, Email: "alice@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin},
	}
	issuer := &stubIssuer{token: "signed-token"}
	uc := NewUserUseCase(repo, issuer, testLogger())

	token, err := uc.Login("alice@example.com", "supersecret1")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, int64(42), issuer.userID)
	assert.Equal(t, domain.RoleAdmin, issuer.role)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockUserRepo{
		user: &domain.User{ID: 42, Email: "alice@example.com", PasswordHash: string(hash)},
	}
	uc := NewUserUseCase(repo, &stubIssuer{}, testLogger())

	_, err = uc.Login("alice@example.com", "not-the-password")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	// Unknown user and wrong password look identical to the caller.
	repo := &mockUserRepo{getErr: &domain.NotFoundError{Resource: "user"}}
	uc := NewUserUseCase(repo, &stubIssuer{}, testLogger())

	_, err := uc.Login("nobody@example.com", "supersecret1")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
