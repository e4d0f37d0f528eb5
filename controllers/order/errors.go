package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInactiveUser    = errors.New("user account is not active")
	ErrAddressNotFound = errors.New("address not found")
	// ErrOrderNotFound covers both a missing id and an order owned by someone
	// else, so callers cannot probe other users' orders.
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// LineProblem describes one cart line that failed live validation.
type LineProblem struct {
	ProductID uint   `json:"product_id"`
	Reason    string `json:"reason"`
}

// CartValidationError enumerates every offending line, not just the first.
type CartValidationError struct {
	Problems []LineProblem
}

func (e *CartValidationError) Error() string {
	reasons := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		reasons[i] = fmt.Sprintf("product %d: %s", p.ProductID, p.Reason)
	}
	return "cart validation failed: " + strings.Join(reasons, "; ")
}

// AddressIneligibleError is returned when a saved address's type flags
// exclude it from the requested use.
type AddressIneligibleError struct {
	AddressID uint
	Use       string // "shipping" or "billing"
}

func (e *AddressIneligibleError) Error() string {
	return fmt.Sprintf("address %d cannot be used for %s", e.AddressID, e.Use)
}

type AddressIncompleteError struct {
	Use     string
	Missing []string
}

func (e *AddressIncompleteError) Error() string {
	return fmt.Sprintf("%s address is missing required fields: %s", e.Use, strings.Join(e.Missing, ", "))
}

type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

// respondError translates the failure taxonomy into a status code plus a
// machine-readable code for the HTTP boundary.
func respondError(c *gin.Context, err error) {
	var (
		cartErr       *CartValidationError
		ineligibleErr *AddressIneligibleError
		incompleteErr *AddressIncompleteError
		transitionErr *InvalidTransitionError
	)

	switch {
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"code": "EMPTY_CART", "message": err.Error()})
	case errors.As(err, &cartErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"code": "CART_INVALID", "message": cartErr.Error(), "problems": cartErr.Problems,
		})
	case errors.Is(err, ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "ADDRESS_NOT_FOUND", "message": err.Error()})
	case errors.As(err, &ineligibleErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": "ADDRESS_INELIGIBLE", "message": ineligibleErr.Error()})
	case errors.As(err, &incompleteErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"code": "ADDRESS_INCOMPLETE", "message": incompleteErr.Error(), "missing": incompleteErr.Missing,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_STATUS_TRANSITION", "message": transitionErr.Error()})
	case errors.Is(err, ErrNotCancellable):
		c.JSON(http.StatusBadRequest, gin.H{"code": "NOT_CANCELLABLE", "message": err.Error()})
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "ORDER_NOT_FOUND", "message": err.Error()})
	case errors.Is(err, ErrInactiveUser):
		c.JSON(http.StatusForbidden, gin.H{"code": "USER_INACTIVE", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal error"})
	}
}
