package usecase

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// amountPattern accepts an optional "$", digits and up to two decimals.
	amountPattern = regexp.MustCompile(`\$?(\d+(\.\d{1,2})?)`)
	// accountPattern accepts a digit run after "to", "account" or "acc".
	accountPattern = regexp.MustCompile(`(?i)\b(?:to|account|acc)\s+(\d+)`)
)

// ExtractAmount returns the first amount token in text.
// "$50", "50" and "12.5" are accepted; "12.345" yields 12.34.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	match := amountPattern.FindStringSubmatch(text)
	if match == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(match[1])
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// ExtractAccountNumber returns the digits following the first "to",
// "account" or "acc" marker.
func ExtractAccountNumber(text string) (string, bool) {
	match := accountPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// extractTransfer pulls both tokens of a transfer request. The account
// token is removed before the amount is searched so that
// "transfer to account 67890 $100" does not read 67890 as the amount.
func extractTransfer(text string) (amount decimal.Decimal, hasAmount bool, to string, hasAccount bool) {
	to, hasAccount = ExtractAccountNumber(text)
	rest := text
	if hasAccount {
		loc := accountPattern.FindStringIndex(text)
		rest = text[:loc[0]] + " " + text[loc[1]:]
	}
	amount, hasAmount = ExtractAmount(strings.TrimSpace(rest))
	return amount, hasAmount, to, hasAccount
}
