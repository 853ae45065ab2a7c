package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the domain services. Controllers map these
// onto HTTP statuses; services never write responses themselves.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrSelfTrade          = errors.New("cannot order your own product")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("illegal order status transition")
	ErrAlreadyReviewed    = errors.New("product already reviewed")
	ErrReviewNotEligible  = errors.New("only buyers with a completed order can review")
	ErrCartItemNotFound   = errors.New("item is not in the cart")
	ErrBelowMinimum       = errors.New("quantity is below the minimum order quantity")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError reports a rejected order along with how much
// stock actually remains, so the caller can prompt the buyer to reduce
// the quantity instead of blindly retrying.
type InsufficientStockError struct {
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d remaining", e.Available)
}

// ValidationError carries field-level messages for a rejected write.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
