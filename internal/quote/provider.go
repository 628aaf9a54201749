// Package quote fetches the current price of an underlying so strategies can be
// laid out around it.
package quote

import (
	"context"
	"errors"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// Provider fetches a live quote for one symbol.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
}

// retryable reports whether another attempt at the provider could succeed.
func retryable(err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrSymbolNotFound),
		errors.Is(err, apperrors.ErrInputValidation),
		errors.Is(err, apperrors.ErrConfigInvalid),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// countsAgainstProvider reports whether err says something about the
// provider's health. Unknown symbols do not.
func countsAgainstProvider(err error) bool {
	return !errors.Is(err, apperrors.ErrSymbolNotFound) && !errors.Is(err, apperrors.ErrInputValidation)
}
