package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a named, password-protected balance holder.
// Transactions are ordered newest first.
type Account struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	Password     string          `json:"password"`
	Transactions []Transaction   `json:"transactions"`
}

// NewAccount creates an empty account with a zero balance.
func NewAccount(id, name, password string) Account {
	return Account{
		ID:           id,
		Name:         name,
		Balance:      decimal.Zero,
		Password:     password,
		Transactions: []Transaction{},
	}
}

// CheckPassword compares the stored password with candidate verbatim.
func (a *Account) CheckPassword(candidate string) bool {
	return a.Password == candidate
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns a copy of the account with tx's amount subtracted
// and tx prepended to the history. The receiver is not modified.
func (a *Account) ApplyDebit(tx Transaction) Account {
	next := a.Clone()
	next.Balance = a.Balance.Sub(tx.Amount)
	next.Transactions = prepend(next.Transactions, tx)
	return next
}

// ApplyCredit returns a copy of the account with tx's amount added
// and tx prepended to the history. The receiver is not modified.
func (a *Account) ApplyCredit(tx Transaction) Account {
	next := a.Clone()
	next.Balance = a.Balance.Add(tx.Amount)
	next.Transactions = prepend(next.Transactions, tx)
	return next
}

// Clone returns a deep copy so callers cannot alias the history slice.
func (a *Account) Clone() Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return cp
}

// Public returns the account without its password.
func (a *Account) Public() Account {
	cp := a.Clone()
	cp.Password = ""
	return cp
}

func prepend(history []Transaction, tx Transaction) []Transaction {
	out := make([]Transaction, 0, len(history)+1)
	out = append(out, tx)
	return append(out, history...)
}
