package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

type ErrorBody struct {
	Error string `json:"error"`
}

type SuccessBody struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessBody{
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// RespondError translates the domain error taxonomy into HTTP statuses.
// Unknown errors are logged server-side and reported as a generic 500 so
// storage details never leak to clients.
func RespondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		notFound          *domain.NotFoundError
		validation        *domain.ValidationError
		insufficientStock *domain.InsufficientStockError
		invalidTransition *domain.InvalidTransitionError
	)

	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case errors.As(err, &notFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.As(err, &validation),
		errors.As(err, &insufficientStock),
		errors.As(err, &invalidTransition):
		Error(c, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("Handler: Unexpected error: %v", err)
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
