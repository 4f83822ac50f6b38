// Package format renders amounts and timestamps for display.
package format

import (
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

// DateLayout is the display layout for transaction timestamps.
const DateLayout = "Jan 2, 2006, 3:04 PM"

// Currency formats an amount as US dollars, e.g. "$1,000.00" or "-$5.00".
// Digits come from the decimal itself, so large amounts stay exact.
func Currency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(domain.AmountDecimalPlaces)
	sign := ""
	if rest, ok := strings.CutPrefix(fixed, "-"); ok {
		sign = "-"
		fixed = rest
	}

	whole, cents, _ := strings.Cut(fixed, ".")
	digits, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return sign + "$" + fixed
	}
	return sign + "$" + humanize.BigComma(digits) + "." + cents
}

// SignedAmount formats a transaction amount with its direction prefix,
// "+ $50.00" for credits and "- $50.00" for debits.
func SignedAmount(tx domain.Transaction) string {
	if tx.Type.IsCredit() {
		return "+ " + Currency(tx.Amount)
	}
	return "- " + Currency(tx.Amount)
}

// Date formats a timestamp in local display form.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// DateString formats an RFC 3339 timestamp. Input that does not parse is
// returned unchanged.
func DateString(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return Date(t)
}

// Relative describes t relative to now, e.g. "2 days ago".
func Relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
