package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrRecipientNotFound  = fmt.Errorf("recipient %w", ErrAccountNotFound)
	ErrInvalidCredentials = errors.New("invalid account number or password")

	// Session errors
	ErrNotAuthenticated = errors.New("no account selected")

	// Transfer errors
	ErrSameAccount   = errors.New("cannot transfer to same account")
	ErrInvalidAmount = errors.New("amount must be positive")

	// Snapshot errors
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
)
