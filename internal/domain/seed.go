package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// SeedAccounts returns the demo directory present at first run.
// Transaction dates are relative to now and histories are newest first.
func SeedAccounts(now time.Time) map[string]Account {
	return map[string]Account{
		"12345": {
			ID:       "12345",
			Name:     "John Doe",
			Balance:  decimal.NewFromInt(1000),
			Password: "john123",
			Transactions: []Transaction{
				{
					ID:          "t2",
					Type:        TransactionDeposit,
					Amount:      decimal.NewFromInt(500),
					Description: "Salary deposit",
					Date:        now.Add(-2 * day),
				},
				{
					ID:          "t1",
					Type:        TransactionDeposit,
					Amount:      decimal.NewFromInt(500),
					Description: "Initial deposit",
					Date:        now.Add(-5 * day),
				},
			},
		},
		"67890": {
			ID:       "67890",
			Name:     "Jane Smith",
			Balance:  decimal.NewFromInt(5000),
			Password: "jane123",
			Transactions: []Transaction{
				{
					ID:          "t3",
					Type:        TransactionDeposit,
					Amount:      decimal.NewFromInt(5000),
					Description: "Initial deposit",
					Date:        now.Add(-7 * day),
				},
			},
		},
	}
}
