package usecase

import (
	"errors"

	"github.com/iho/bankchat/internal/domain"
)

// notificationText turns a store rejection into the message shown to the user.
func notificationText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid account number or password"
	case errors.Is(err, domain.ErrAccountExists):
		return "Account number already exists"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "No account selected"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Amount must be greater than zero"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, domain.ErrSameAccount):
		return "Cannot transfer to the same account"
	case errors.Is(err, domain.ErrRecipientNotFound):
		return "Recipient account not found"
	default:
		return err.Error()
	}
}
