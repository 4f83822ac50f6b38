package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1000", "$1,000.00"},
		{"1100", "$1,100.00"},
		{"1234567.8", "$1,234,567.80"},
		{"0.5", "$0.50"},
		{"-5", "-$5.00"},
		{"99.999", "$100.00"},
		{"90071992547409.99", "$90,071,992,547,409.99"},
		{"12345678901234567890.01", "$12,345,678,901,234,567,890.01"},
		{"-1234.5", "-$1,234.50"},
		{"-0.001", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Currency(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	t.Parallel()

	amount := decimal.NewFromInt(50)
	if got := SignedAmount(domain.Transaction{Type: domain.TransactionTransferIn, Amount: amount}); got != "+ $50.00" {
		t.Errorf("unexpected credit rendering %q", got)
	}
	if got := SignedAmount(domain.Transaction{Type: domain.TransactionWithdrawal, Amount: amount}); got != "- $50.00" {
		t.Errorf("unexpected debit rendering %q", got)
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	if got := Date(ts); got != "Mar 5, 2024, 2:07 PM" {
		t.Errorf("unexpected date %q", got)
	}

	if got := DateString("2024-03-05T14:07:00Z"); got != "Mar 5, 2024, 2:07 PM" {
		t.Errorf("unexpected parsed date %q", got)
	}

	if got := DateString("yesterday"); got != "yesterday" {
		t.Errorf("expected unparsable input to pass through, got %q", got)
	}
}

func TestRelative(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	if got := Relative(now.Add(-48*time.Hour), now); got != "2 days ago" {
		t.Errorf("unexpected relative time %q", got)
	}
}
