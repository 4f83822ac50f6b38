package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/domain"
)

// BankingService defines the behavior needed by BankingHandler.
type BankingService interface {
	Deposit(ctx context.Context, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (*domain.Account, error)
	Transfer(ctx context.Context, toAccountID string, amount decimal.Decimal) (*domain.Account, error)
}

// BankingHandler handles deposits, withdrawals and transfers on the
// logged-in account.
type BankingHandler struct {
	bank BankingService
	now  func() time.Time
}

// NewBankingHandler creates a new BankingHandler.
func NewBankingHandler(bank BankingService) *BankingHandler {
	return &BankingHandler{bank: bank, now: utcNow}
}

// Deposit credits the current account.
func (h *BankingHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	amount, ok := decodeAmount(w, r)
	if !ok {
		return
	}

	account, err := h.bank.Deposit(r.Context(), amount)
	h.respond(w, r, "failed to deposit", account, err)
}

// Withdraw debits the current account.
func (h *BankingHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	amount, ok := decodeAmount(w, r)
	if !ok {
		return
	}

	account, err := h.bank.Withdraw(r.Context(), amount)
	h.respond(w, r, "failed to withdraw", account, err)
}

// Transfer moves money from the current account to another one.
func (h *BankingHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := req.Value()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	account, err := h.bank.Transfer(r.Context(), req.ToAccountID, amount)
	h.respond(w, r, "failed to transfer", account, err)
}

func (h *BankingHandler) respond(w http.ResponseWriter, r *http.Request, message string, account *domain.Account, err error) {
	if err != nil {
		writeDomainError(w, r, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationResponse{
		Account:       dto.AccountFromDomain(account, h.now()),
		Notifications: notifications(r),
	})
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return decimal.Zero, false
	}

	amount, err := req.Value()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return decimal.Zero, false
	}
	return amount, true
}
