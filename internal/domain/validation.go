package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision    = errors.New("amount has too many decimal places")
)

// Validation constants
const (
	MaxAccountIDLength   = 64
	MaxAccountNameLength = 255
	MaxAmount            = "1000000000" // 1 billion
	AmountDecimalPlaces  = 2
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAmount rejects amounts that are not positive. It is the only
// amount rule the account store enforces.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateAmountLimits applies the input limits for amounts typed into a
// form or the CLI: at most two decimal places and at most MaxAmount.
// Sign is left to ValidateAmount.
func ValidateAmountLimits(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountDecimalPlaces)) {
		return fmt.Errorf("%w: at most %d allowed", ErrAmountPrecision, AmountDecimalPlaces)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateAccountID validates a user-chosen account id.
func ValidateAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidAccountID)
	}

	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidAccountID, MaxAccountIDLength)
	}

	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: id cannot contain spaces", ErrInvalidAccountID)
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidatePassword only requires a non-empty password.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidPassword)
	}
	return nil
}

// ValidateRegistration applies the registration form rules.
func ValidateRegistration(accountID, name, password string) error {
	if err := ValidateAccountID(accountID); err != nil {
		return err
	}
	if err := ValidateAccountName(name); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
