package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/domain"
)

func TestAccountHandler_Register(t *testing.T) {
	store := newTestStore(t)
	h := NewAccountHandler(store)

	rec := httptest.NewRecorder()
	h.Register(rec, newRequest(t, http.MethodPost, "/api/v1/accounts",
		dto.RegisterRequest{AccountID: " 55555 ", Name: " Ann Lee ", Password: "pw"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"pw"`) {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}

	resp := decodeBody[dto.OperationResponse](t, rec)
	if resp.Account.ID != "55555" || resp.Account.Name != "Ann Lee" || !resp.Account.Balance.IsZero() {
		t.Fatalf("unexpected account: %+v", resp.Account)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "Account for Ann Lee created successfully!" {
		t.Fatalf("unexpected notifications: %+v", resp.Notifications)
	}
	if !store.AccountExists("55555") {
		t.Fatal("expected account to be registered")
	}
}

func TestAccountHandler_RegisterDuplicate(t *testing.T) {
	h := NewAccountHandler(newTestStore(t))

	rec := httptest.NewRecorder()
	h.Register(rec, newRequest(t, http.MethodPost, "/api/v1/accounts",
		dto.RegisterRequest{AccountID: "12345", Name: "Someone", Password: "pw"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	resp := decodeBody[dto.ErrorResponse](t, rec)
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "Account number already exists" {
		t.Fatalf("unexpected notifications: %+v", resp.Notifications)
	}
}

func TestAccountHandler_RegisterValidation(t *testing.T) {
	h := NewAccountHandler(newTestStore(t))

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"blank id", dto.RegisterRequest{AccountID: " ", Name: "Ann", Password: "pw"}},
		{"blank name", dto.RegisterRequest{AccountID: "1", Name: "  ", Password: "pw"}},
		{"empty password", dto.RegisterRequest{AccountID: "1", Name: "Ann"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, newRequest(t, http.MethodPost, "/api/v1/accounts", tt.req))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_List(t *testing.T) {
	h := NewAccountHandler(newTestStore(t))

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(t, http.MethodGet, "/api/v1/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "balance") {
		t.Fatalf("directory must not expose balances: %s", rec.Body.String())
	}

	resp := decodeBody[dto.ListAccountsResponse](t, rec)
	if resp.Total != 2 || resp.Accounts[0].ID != "12345" {
		t.Fatalf("unexpected directory: %+v", resp)
	}
}

func TestAccountHandler_Me(t *testing.T) {
	store := newTestStore(t)
	h := NewAccountHandler(store)

	rec := httptest.NewRecorder()
	h.Me(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	loginJohn(t, store)

	rec = httptest.NewRecorder()
	h.Me(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody[dto.AccountResponse](t, rec)
	if resp.BalanceFormatted != "$1,000.00" || len(resp.Transactions) != 2 {
		t.Fatalf("unexpected account: %+v", resp)
	}
}

func TestAccountHandler_Exists(t *testing.T) {
	h := NewAccountHandler(newTestStore(t))

	for id, want := range map[string]bool{"67890": true, "00000": false} {
		rec := httptest.NewRecorder()
		req := setChiURLParam(newRequest(t, http.MethodGet, "/api/v1/accounts/"+id+"/exists", nil), "id", id)
		h.Exists(rec, req)

		resp := decodeBody[dto.ExistsResponse](t, rec)
		if resp.Exists != want {
			t.Fatalf("exists(%s) = %v, want %v", id, resp.Exists, want)
		}
	}
}

func TestAccountHandler_TransactionsFilterAndPage(t *testing.T) {
	store := newTestStore(t)
	h := NewAccountHandler(store)
	loginJohn(t, store)

	ctx := context.Background()
	if _, err := store.Withdraw(ctx, decimal.NewFromInt(20)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := store.Transfer(ctx, "67890", decimal.NewFromInt(30)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Transactions(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me/transactions", nil))
	all := decodeBody[dto.TransactionsResponse](t, rec)
	if all.Total != 4 || all.Transactions[0].Type != domain.TransactionTransferOut {
		t.Fatalf("expected 4 transactions newest first, got %+v", all)
	}
	if all.Transactions[0].AmountFormatted != "- $30.00" {
		t.Fatalf("amount_formatted = %q", all.Transactions[0].AmountFormatted)
	}

	rec = httptest.NewRecorder()
	h.Transactions(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me/transactions?type=deposit&limit=1&offset=1", nil))
	page := decodeBody[dto.TransactionsResponse](t, rec)
	if page.Total != 2 || len(page.Transactions) != 1 || page.Transactions[0].ID != "t1" {
		t.Fatalf("unexpected deposit page: %+v", page)
	}

	rec = httptest.NewRecorder()
	h.Transactions(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me/transactions?offset=99", nil))
	if empty := decodeBody[dto.TransactionsResponse](t, rec); len(empty.Transactions) != 0 {
		t.Fatalf("expected empty page past the end, got %+v", empty)
	}

	rec = httptest.NewRecorder()
	h.Transactions(rec, newRequest(t, http.MethodGet, "/api/v1/accounts/me/transactions?type=refund", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}
