package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/adapter/http/dto"
)

func TestBankingHandler_Deposit(t *testing.T) {
	store := newTestStore(t)
	loginJohn(t, store)
	h := NewBankingHandler(store)

	rec := httptest.NewRecorder()
	h.Deposit(rec, newRequest(t, http.MethodPost, "/api/v1/deposits", `{"amount":"50"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[dto.OperationResponse](t, rec)
	if !resp.Account.Balance.Equal(decimal.NewFromInt(1050)) {
		t.Fatalf("expected balance 1050, got %s", resp.Account.Balance)
	}
	if resp.Account.Transactions[0].Description != "Deposited $50.00" {
		t.Fatalf("unexpected description %q", resp.Account.Transactions[0].Description)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "Successfully deposited $50.00" {
		t.Fatalf("unexpected notifications: %+v", resp.Notifications)
	}
}

func TestBankingHandler_DepositErrors(t *testing.T) {
	tests := []struct {
		name   string
		login  bool
		body   string
		status int
	}{
		{"invalid json", true, "{", http.StatusBadRequest},
		{"missing amount", true, `{}`, http.StatusBadRequest},
		{"zero amount", true, `{"amount":0}`, http.StatusBadRequest},
		{"three decimals", true, `{"amount":"1.005"}`, http.StatusBadRequest},
		{"above maximum", true, `{"amount":"1000000000.01"}`, http.StatusBadRequest},
		{"zero amount without session", false, `{"amount":0}`, http.StatusBadRequest},
		{"no session", false, `{"amount":10}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.login {
				loginJohn(t, store)
			}
			h := NewBankingHandler(store)

			rec := httptest.NewRecorder()
			h.Deposit(rec, newRequest(t, http.MethodPost, "/api/v1/deposits", tt.body))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if acc := store.Accounts()["12345"]; !acc.Balance.Equal(decimal.NewFromInt(1000)) {
				t.Fatalf("balance changed on failure: %s", acc.Balance)
			}
		})
	}
}

func TestBankingHandler_WithdrawInsufficientFunds(t *testing.T) {
	store := newTestStore(t)
	loginJohn(t, store)
	h := NewBankingHandler(store)

	rec := httptest.NewRecorder()
	h.Withdraw(rec, newRequest(t, http.MethodPost, "/api/v1/withdrawals", `{"amount":2000}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	resp := decodeBody[dto.ErrorResponse](t, rec)
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "Insufficient funds" {
		t.Fatalf("unexpected notifications: %+v", resp.Notifications)
	}
}

func TestBankingHandler_Withdraw(t *testing.T) {
	store := newTestStore(t)
	loginJohn(t, store)
	h := NewBankingHandler(store)

	rec := httptest.NewRecorder()
	h.Withdraw(rec, newRequest(t, http.MethodPost, "/api/v1/withdrawals", `{"amount":"999.99"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[dto.OperationResponse](t, rec)
	if resp.Account.BalanceFormatted != "$0.01" {
		t.Fatalf("unexpected balance %s", resp.Account.BalanceFormatted)
	}
}

func TestBankingHandler_Transfer(t *testing.T) {
	store := newTestStore(t)
	loginJohn(t, store)
	h := NewBankingHandler(store)

	rec := httptest.NewRecorder()
	h.Transfer(rec, newRequest(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
		ToAccountID: "67890",
		Amount:      ptr(decimal.NewFromInt(100)),
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[dto.OperationResponse](t, rec)
	if !resp.Account.Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected sender balance 900, got %s", resp.Account.Balance)
	}
	if resp.Notifications[0].Message != "Successfully transferred $100.00 to Jane Smith" {
		t.Fatalf("unexpected notification %q", resp.Notifications[0].Message)
	}
	if jane := store.Accounts()["67890"]; !jane.Balance.Equal(decimal.NewFromInt(5100)) {
		t.Fatalf("expected recipient balance 5100, got %s", jane.Balance)
	}
}

func TestBankingHandler_TransferRejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		note   string
	}{
		{"same account", `{"to_account_id":"12345","amount":10}`, http.StatusBadRequest, "Cannot transfer to the same account"},
		{"unknown recipient", `{"to_account_id":"99999","amount":10}`, http.StatusNotFound, "Recipient account not found"},
		{"missing amount", `{"to_account_id":"67890"}`, http.StatusBadRequest, ""},
		{"three decimals", `{"to_account_id":"67890","amount":"1.005"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			loginJohn(t, store)
			h := NewBankingHandler(store)

			rec := httptest.NewRecorder()
			h.Transfer(rec, newRequest(t, http.MethodPost, "/api/v1/transfers", tt.body))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.note == "" {
				return
			}
			resp := decodeBody[dto.ErrorResponse](t, rec)
			if len(resp.Notifications) != 1 || resp.Notifications[0].Message != tt.note {
				t.Fatalf("unexpected notifications: %+v", resp.Notifications)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
