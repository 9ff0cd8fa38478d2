package service

import (
	"errors"
	"fmt"

	"descartables/internal/domain"
)

var (
	// ErrValidation is the parent of every input rejection.
	ErrValidation = errors.New("validation failed")

	ErrInvalidPrice = fmt.Errorf("%w: price must be a non-negative number", ErrValidation)

	ErrInvalidQuantity      = fmt.Errorf("%w: invalid quantity", ErrValidation)
	ErrQuantityNotInteger   = fmt.Errorf("%w: not an integer", ErrInvalidQuantity)
	ErrQuantityBelowMinimum = fmt.Errorf("%w: must be at least 1", ErrInvalidQuantity)
	ErrQuantityAboveMaximum = fmt.Errorf("%w: must be at most %d per product", ErrInvalidQuantity, domain.MaxLineQuantity)

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccessDenied       = errors.New("access denied")
	ErrEmptyCart          = errors.New("cart is empty")
)
