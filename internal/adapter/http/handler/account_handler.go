package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Register(ctx context.Context, accountID, name, password string) (*domain.Account, error)
	Accounts() map[string]domain.Account
	AccountExists(id string) bool
	CurrentAccount() (*domain.Account, bool)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accounts AccountService
	now      func() time.Time
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts, now: utcNow}
}

// Register creates a new account.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid registration", err.Error())
		return
	}

	account, err := h.accounts.Register(r.Context(), req.AccountID, req.Name, req.Password)
	if err != nil {
		writeDomainError(w, r, "failed to register account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OperationResponse{
		Account:       dto.AccountFromDomain(account, h.now()),
		Notifications: notifications(r),
	})
}

// List lists the account directory without balances.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.DirectoryFromDomain(h.accounts.Accounts()))
}

// Me returns the logged-in account.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := h.accounts.CurrentAccount()
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in", domain.ErrNotAuthenticated.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account, h.now()))
}

// Exists reports whether an account id is taken.
func (h *AccountHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.ExistsResponse{ID: id, Exists: h.accounts.AccountExists(id)})
}

// Transactions pages through the logged-in account's history, newest first.
// The optional type parameter keeps only one transaction type.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	account, ok := h.accounts.CurrentAccount()
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in", domain.ErrNotAuthenticated.Error())
		return
	}

	txType := domain.TransactionType(r.URL.Query().Get("type"))
	if txType != "" && !txType.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid transaction type", string(txType))
		return
	}

	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	filtered := make([]domain.Transaction, 0, len(account.Transactions))
	for _, tx := range account.Transactions {
		if txType == "" || tx.Type == txType {
			filtered = append(filtered, tx)
		}
	}

	total := len(filtered)
	start := min(offset, total)
	end := min(start+limit, total)

	writeJSON(w, http.StatusOK, dto.TransactionsResponse{
		Transactions: dto.TransactionsFromDomain(filtered[start:end], h.now()),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}
