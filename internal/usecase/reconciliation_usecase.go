package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

// ReconciliationUseCase checks balances against transaction histories.
type ReconciliationUseCase struct {
	directory DirectorySource
	now       func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(directory DirectorySource) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		directory: directory,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes one account's balance from its history.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, ok := uc.directory.Accounts()[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return uc.reconcile(account), nil
}

// ReconcileAllAccounts reconciles every account, ordered by id.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts := uc.directory.Accounts()

	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]*ReconciliationResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, uc.reconcile(accounts[id]))
	}

	return results, nil
}

func (uc *ReconciliationUseCase) reconcile(account domain.Account) *ReconciliationResult {
	calculated := decimal.Zero
	for _, tx := range account.Transactions {
		calculated = calculated.Add(tx.SignedAmount())
	}

	return &ReconciliationResult{
		AccountID:         account.ID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance.Sub(calculated),
		IsReconciled:      account.Balance.Equal(calculated),
		LastChecked:       uc.now(),
	}
}

// CheckTransferConsistency verifies that every transfer-out has a matching
// transfer-in on the peer account for the same amount, and vice versa.
func (uc *ReconciliationUseCase) CheckTransferConsistency(ctx context.Context) error {
	type leg struct {
		from, to, amount string
	}

	open := make(map[leg]int)
	for _, account := range uc.directory.Accounts() {
		for _, tx := range account.Transactions {
			switch tx.Type {
			case domain.TransactionTransferOut:
				open[leg{account.ID, tx.ToAccount, tx.Amount.StringFixed(2)}]++
			case domain.TransactionTransferIn:
				open[leg{tx.FromAccount, account.ID, tx.Amount.StringFixed(2)}]--
			}
		}
	}

	for l, n := range open {
		if n != 0 {
			return fmt.Errorf(
				"ledger inconsistency detected: transfer %s -> %s of %s has %d unmatched legs",
				l.from, l.to, l.amount, n,
			)
		}
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	TotalBalance       decimal.Decimal
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	LedgerError        string
	CheckedAt          time.Time
}

// Consistent reports whether every account reconciles and every transfer
// has both legs.
func (r *ReconciliationReport) Consistent() bool {
	return r.LedgerConsistent && len(r.Discrepancies) == 0
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckTransferConsistency(ctx)

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		TotalBalance:     decimal.Zero,
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        uc.now(),
	}
	if ledgerErr != nil {
		report.LedgerError = ledgerErr.Error()
	}

	for _, result := range results {
		report.TotalBalance = report.TotalBalance.Add(result.RecordedBalance)
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
