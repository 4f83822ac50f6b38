package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
	"github.com/iho/bankchat/internal/format"
	"github.com/iho/bankchat/internal/usecase"
)

// AccountResponse represents an account in API responses. It never carries the password.
type AccountResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Balance          decimal.Decimal        `json:"balance"`
	BalanceFormatted string                 `json:"balance_formatted"`
	Transactions     []*TransactionResponse `json:"transactions"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account, now time.Time) *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Balance:          a.Balance,
		BalanceFormatted: format.Currency(a.Balance),
		Transactions:     TransactionsFromDomain(a.Transactions, now),
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              string                 `json:"id"`
	Type            domain.TransactionType `json:"type"`
	Label           string                 `json:"label"`
	Amount          decimal.Decimal        `json:"amount"`
	AmountFormatted string                 `json:"amount_formatted"`
	Credit          bool                   `json:"credit"`
	Description     string                 `json:"description"`
	Date            time.Time              `json:"date"`
	DateFormatted   string                 `json:"date_formatted"`
	Age             string                 `json:"age"`
	FromAccount     string                 `json:"from_account,omitempty"`
	ToAccount       string                 `json:"to_account,omitempty"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(tx domain.Transaction, now time.Time) *TransactionResponse {
	return &TransactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		Label:           tx.Type.Label(),
		Amount:          tx.Amount,
		AmountFormatted: format.SignedAmount(tx),
		Credit:          tx.Type.IsCredit(),
		Description:     tx.Description,
		Date:            tx.Date,
		DateFormatted:   format.Date(tx.Date),
		Age:             format.Relative(tx.Date, now),
		FromAccount:     tx.FromAccount,
		ToAccount:       tx.ToAccount,
	}
}

// TransactionsFromDomain converts domain transactions to responses, keeping order.
func TransactionsFromDomain(txs []domain.Transaction, now time.Time) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx, now)
	}
	return result
}

// TransactionsResponse is one page of an account's history.
type TransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int                    `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// DirectoryEntry is an account as listed to everyone.
type DirectoryEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListAccountsResponse represents the account directory.
type ListAccountsResponse struct {
	Accounts []DirectoryEntry `json:"accounts"`
	Total    int64            `json:"total"`
}

// DirectoryFromDomain lists accounts sorted by id.
func DirectoryFromDomain(accounts map[string]domain.Account) ListAccountsResponse {
	entries := make([]DirectoryEntry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, DirectoryEntry{ID: a.ID, Name: a.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return ListAccountsResponse{Accounts: entries, Total: int64(len(entries))}
}

// ExistsResponse answers an account existence check.
type ExistsResponse struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool                  `json:"authenticated"`
	Account       *AccountResponse      `json:"account,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

// OperationResponse is returned by every successful store operation.
type OperationResponse struct {
	Account       *AccountResponse      `json:"account,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

// ChatResponse is the bot's answer to one turn.
type ChatResponse struct {
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

// ChatFromReply converts a resolver reply to response.
func ChatFromReply(r usecase.Reply) ChatResponse {
	return ChatResponse{Intent: r.Intent, Reply: r.Text}
}

// TranscriptResponse is the chat history.
type TranscriptResponse struct {
	Messages []usecase.Message `json:"messages"`
	Busy     bool              `json:"busy"`
}

// DiscrepancyResponse is one account whose balance disagrees with its history.
type DiscrepancyResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ConsistencyResponse is the reconciliation report.
type ConsistencyResponse struct {
	Status             string                 `json:"status"`
	Consistent         bool                   `json:"consistent"`
	TotalAccounts      int                    `json:"total_accounts"`
	ReconciledAccounts int                    `json:"reconciled_accounts"`
	TotalBalance       decimal.Decimal        `json:"total_balance"`
	Discrepancies      []*DiscrepancyResponse `json:"discrepancies"`
	LedgerError        string                 `json:"ledger_error,omitempty"`
	CheckedAt          time.Time              `json:"checked_at"`
}

// ConsistencyFromReport converts a reconciliation report to response.
func ConsistencyFromReport(r *usecase.ReconciliationReport) ConsistencyResponse {
	resp := ConsistencyResponse{
		Status:             "consistent",
		Consistent:         r.Consistent(),
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		TotalBalance:       r.TotalBalance,
		Discrepancies:      make([]*DiscrepancyResponse, len(r.Discrepancies)),
		LedgerError:        r.LedgerError,
		CheckedAt:          r.CheckedAt,
	}
	if !resp.Consistent {
		resp.Status = "inconsistent"
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = &DiscrepancyResponse{
			AccountID:         d.AccountID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error         string                `json:"error"`
	Message       string                `json:"message,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}
