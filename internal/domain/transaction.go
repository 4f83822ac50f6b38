package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of balance-affecting event.
type TransactionType string

const (
	TransactionDeposit     TransactionType = "deposit"
	TransactionWithdrawal  TransactionType = "withdrawal"
	TransactionTransferIn  TransactionType = "transfer-in"
	TransactionTransferOut TransactionType = "transfer-out"
)

var transactionLabels = map[TransactionType]string{
	TransactionDeposit:     "Deposit",
	TransactionWithdrawal:  "Withdrawal",
	TransactionTransferIn:  "Transfer in",
	TransactionTransferOut: "Transfer out",
}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	_, ok := transactionLabels[t]
	return ok
}

// IsCredit reports whether the type increases the balance.
func (t TransactionType) IsCredit() bool {
	return t == TransactionDeposit || t == TransactionTransferIn
}

// Label returns the display label, e.g. "Transfer in".
func (t TransactionType) Label() string {
	if label, ok := transactionLabels[t]; ok {
		return label
	}
	return string(t)
}

// Transaction is an immutable record of one balance change.
// FromAccount and ToAccount are only set on transfer records.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	FromAccount string          `json:"fromAccount,omitempty"`
	ToAccount   string          `json:"toAccount,omitempty"`
}

// SignedAmount returns the amount as it affected the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}
