package dto

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

var errMissingAmount = errors.New("amount is required")

// LoginRequest represents a request to open a session.
type LoginRequest struct {
	AccountID string `json:"account_id"`
	Password  string `json:"password"`
}

// RegisterRequest represents a request to create an account.
type RegisterRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Password  string `json:"password"`
}

// Normalize trims the fields the registration form trims.
func (r *RegisterRequest) Normalize() {
	r.AccountID = strings.TrimSpace(r.AccountID)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate applies the registration form rules. Call it after Normalize.
func (r *RegisterRequest) Validate() error {
	return domain.ValidateRegistration(r.AccountID, r.Name, r.Password)
}

// AmountRequest represents a deposit or withdrawal.
// Amount accepts a JSON string or number.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Value returns the amount or an error when it was omitted or exceeds the
// input limits.
func (r *AmountRequest) Value() (decimal.Decimal, error) {
	return amountValue(r.Amount)
}

// TransferRequest represents a transfer from the current account.
type TransferRequest struct {
	ToAccountID string           `json:"to_account_id"`
	Amount      *decimal.Decimal `json:"amount"`
}

// Value returns the amount or an error when it was omitted or exceeds the
// input limits.
func (r *TransferRequest) Value() (decimal.Decimal, error) {
	return amountValue(r.Amount)
}

func amountValue(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, errMissingAmount
	}
	if err := domain.ValidateAmountLimits(*amount); err != nil {
		return decimal.Zero, err
	}
	return *amount, nil
}

// ChatRequest represents one chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
