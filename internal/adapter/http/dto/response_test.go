package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
	"github.com/iho/bankchat/internal/usecase"
)

var now = time.Date(2026, time.May, 10, 15, 0, 0, 0, time.UTC)

func TestAccountFromDomain_OmitsPassword(t *testing.T) {
	account := domain.SeedAccounts(now)["12345"]

	resp := AccountFromDomain(&account, now)
	if resp.ID != "12345" || resp.BalanceFormatted != "$1,000.00" {
		t.Fatalf("unexpected account response: %+v", resp)
	}
	if len(resp.Transactions) != 2 || resp.Transactions[0].ID != "t2" {
		t.Fatalf("expected newest-first history, got %+v", resp.Transactions)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "john123") || strings.Contains(string(data), "password") {
		t.Fatalf("password leaked into response: %s", data)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	tx := domain.Transaction{
		ID:          "tx-1",
		Type:        domain.TransactionTransferOut,
		Amount:      decimal.RequireFromString("1250.5"),
		Description: "Transferred $1,250.50 to Jane Smith (67890)",
		Date:        now.Add(-48 * time.Hour),
		ToAccount:   "67890",
	}

	resp := TransactionFromDomain(tx, now)
	if resp.Label != "Transfer out" {
		t.Fatalf("label = %q", resp.Label)
	}
	if resp.AmountFormatted != "- $1,250.50" {
		t.Fatalf("amount_formatted = %q", resp.AmountFormatted)
	}
	if resp.Credit {
		t.Fatal("transfer-out must not be a credit")
	}
	if resp.Age != "2 days ago" {
		t.Fatalf("age = %q", resp.Age)
	}
	if resp.DateFormatted != "May 8, 2026, 3:00 PM" {
		t.Fatalf("date_formatted = %q", resp.DateFormatted)
	}
}

func TestDirectoryFromDomain_SortedWithoutBalances(t *testing.T) {
	resp := DirectoryFromDomain(domain.SeedAccounts(now))
	if resp.Total != 2 {
		t.Fatalf("total = %d", resp.Total)
	}
	if resp.Accounts[0].ID != "12345" || resp.Accounts[1].Name != "Jane Smith" {
		t.Fatalf("unexpected directory: %+v", resp.Accounts)
	}
}

func TestConsistencyFromReport(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalAccounts:      2,
		ReconciledAccounts: 1,
		TotalBalance:       decimal.NewFromInt(6000),
		Discrepancies: []*usecase.ReconciliationResult{{
			AccountID:         "12345",
			RecordedBalance:   decimal.NewFromInt(1000),
			CalculatedBalance: decimal.NewFromInt(900),
			Difference:        decimal.NewFromInt(100),
		}},
		LedgerConsistent: true,
		CheckedAt:        now,
	}

	resp := ConsistencyFromReport(report)
	if resp.Consistent || resp.Status != "inconsistent" {
		t.Fatalf("expected inconsistent report, got %+v", resp)
	}
	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Difference.String() != "100" {
		t.Fatalf("unexpected discrepancies: %+v", resp.Discrepancies)
	}

	report.Discrepancies = nil
	if resp := ConsistencyFromReport(report); !resp.Consistent || resp.Status != "consistent" {
		t.Fatalf("expected consistent report, got %+v", resp)
	}
}
