package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
	"github.com/iho/bankchat/internal/format"
)

// AccountStoreConfig holds the collaborators of an AccountStore.
// Snapshots and IDGen are required.
type AccountStoreConfig struct {
	Snapshots SnapshotStore
	IDGen     IDGenerator
	Notifier  Notifier
	Recorder  Recorder
	Logger    zerolog.Logger
	Clock     func() time.Time
	// Seed builds the directory used when the snapshot slot is empty.
	// Defaults to domain.SeedAccounts.
	Seed func(now time.Time) map[string]domain.Account
}

// AccountStore owns the account directory and the single session.
// Every operation runs as one critical section: checks, mutation and
// snapshot write happen under the same lock, so a failed operation
// leaves no trace.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	session  domain.Session

	snapshots SnapshotStore
	idGen     IDGenerator
	notifier  Notifier
	recorder  Recorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAccountStore loads the directory from the snapshot store, seeding it
// when the slot is empty.
func NewAccountStore(ctx context.Context, cfg AccountStoreConfig) (*AccountStore, error) {
	if cfg.Snapshots == nil {
		return nil, errors.New("account store: snapshot store is required")
	}
	if cfg.IDGen == nil {
		return nil, errors.New("account store: id generator is required")
	}

	s := &AccountStore{
		snapshots: cfg.Snapshots,
		idGen:     cfg.IDGen,
		notifier:  cfg.Notifier,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger.With().Str("component", "account_store").Logger(),
		now:       cfg.Clock,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	seed := cfg.Seed
	if seed == nil {
		seed = domain.SeedAccounts
	}

	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if snapshot == nil {
		s.accounts = seed(s.now())
		s.logger.Info().Int("accounts", len(s.accounts)).Msg("snapshot slot empty, seeded account directory")
		s.persist(ctx)
		return s, nil
	}

	s.accounts = snapshot.Accounts
	s.logger.Info().
		Int("accounts", len(s.accounts)).
		Time("saved_at", snapshot.SavedAt).
		Msg("account directory restored from snapshot")

	return s, nil
}

// Login authenticates against the directory. A failed attempt leaves the
// current session untouched.
func (s *AccountStore) Login(ctx context.Context, accountID, password string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok || !account.CheckPassword(password) {
		return nil, s.fail(ctx, OpLogin, domain.ErrInvalidCredentials)
	}

	s.session = domain.Session{CurrentAccountID: account.ID}
	s.recorder.SetSessionActive(true)
	s.succeed(ctx, OpLogin, domain.NotificationSuccess, fmt.Sprintf("Welcome, %s!", account.Name))

	return cloneOf(account), nil
}

// Logout clears the session unconditionally.
func (s *AccountStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{}
	s.recorder.SetSessionActive(false)
	s.succeed(ctx, OpLogout, domain.NotificationInfo, "You have been logged out")
}

// Register creates an empty account and logs in as it. The only rejection
// is an id that is already taken.
func (s *AccountStore) Register(ctx context.Context, accountID, name, password string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[accountID]; exists {
		return nil, s.fail(ctx, OpRegister, domain.ErrAccountExists)
	}

	account := domain.NewAccount(accountID, name, password)
	s.commit(ctx, account)
	s.session = domain.Session{CurrentAccountID: account.ID}

	s.recorder.RecordRegistration()
	s.recorder.SetSessionActive(true)
	s.succeed(ctx, OpRegister, domain.NotificationSuccess, fmt.Sprintf("Account for %s created successfully!", name))

	return cloneOf(account), nil
}

// Deposit credits the current account.
func (s *AccountStore) Deposit(ctx context.Context, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, s.fail(ctx, OpDeposit, err)
	}

	current, err := s.currentLocked()
	if err != nil {
		return nil, s.fail(ctx, OpDeposit, err)
	}

	formatted := format.Currency(amount)
	next := current.ApplyCredit(s.newTransaction(domain.TransactionDeposit, amount, "Deposited "+formatted))
	s.commit(ctx, next)

	s.recorder.RecordTransaction(domain.TransactionDeposit, amount)
	s.succeed(ctx, OpDeposit, domain.NotificationSuccess, "Successfully deposited "+formatted)

	return cloneOf(next), nil
}

// Withdraw debits the current account. The balance never goes negative.
func (s *AccountStore) Withdraw(ctx context.Context, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, s.fail(ctx, OpWithdraw, err)
	}

	current, err := s.currentLocked()
	if err != nil {
		return nil, s.fail(ctx, OpWithdraw, err)
	}

	if err := current.ValidateDebit(amount); err != nil {
		return nil, s.fail(ctx, OpWithdraw, err)
	}

	formatted := format.Currency(amount)
	next := current.ApplyDebit(s.newTransaction(domain.TransactionWithdrawal, amount, "Withdrew "+formatted))
	s.commit(ctx, next)

	s.recorder.RecordTransaction(domain.TransactionWithdrawal, amount)
	s.succeed(ctx, OpWithdraw, domain.NotificationSuccess, "Successfully withdrew "+formatted)

	return cloneOf(next), nil
}

// Transfer moves amount from the current account to toAccountID. Both
// history records are committed together or not at all.
func (s *AccountStore) Transfer(ctx context.Context, toAccountID string, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, s.fail(ctx, OpTransfer, err)
	}

	source, err := s.currentLocked()
	if err != nil {
		return nil, s.fail(ctx, OpTransfer, err)
	}

	if toAccountID == source.ID {
		return nil, s.fail(ctx, OpTransfer, domain.ErrSameAccount)
	}

	recipient, ok := s.accounts[toAccountID]
	if !ok {
		return nil, s.fail(ctx, OpTransfer, domain.ErrRecipientNotFound)
	}

	if err := source.ValidateDebit(amount); err != nil {
		return nil, s.fail(ctx, OpTransfer, err)
	}

	formatted := format.Currency(amount)

	out := s.newTransaction(domain.TransactionTransferOut, amount,
		fmt.Sprintf("Transferred %s to %s (%s)", formatted, recipient.Name, recipient.ID))
	out.ToAccount = recipient.ID

	in := s.newTransaction(domain.TransactionTransferIn, amount,
		fmt.Sprintf("Received %s from %s (%s)", formatted, source.Name, source.ID))
	in.FromAccount = source.ID
	in.Date = out.Date

	next := source.ApplyDebit(out)
	s.commit(ctx, next, recipient.ApplyCredit(in))

	s.recorder.RecordTransaction(domain.TransactionTransferOut, amount)
	s.succeed(ctx, OpTransfer, domain.NotificationSuccess,
		fmt.Sprintf("Successfully transferred %s to %s", formatted, recipient.Name))

	return cloneOf(next), nil
}

// AccountExists reports whether id is in the directory.
func (s *AccountStore) AccountExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[id]
	return ok
}

// CurrentAccount returns a copy of the logged-in account.
func (s *AccountStore) CurrentAccount() (*domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentLocked()
	if err != nil {
		return nil, false
	}
	return cloneOf(current), true
}

// Session returns the current session.
func (s *AccountStore) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Accounts returns a deep copy of the whole directory.
func (s *AccountStore) Accounts() map[string]domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAccounts(s.accounts)
}

// Snapshot returns the directory in its persisted form.
func (s *AccountStore) Snapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AccountStore) currentLocked() (domain.Account, error) {
	if !s.session.IsAuthenticated() {
		return domain.Account{}, domain.ErrNotAuthenticated
	}
	account, ok := s.accounts[s.session.CurrentAccountID]
	if !ok {
		return domain.Account{}, domain.ErrNotAuthenticated
	}
	return account, nil
}

func (s *AccountStore) newTransaction(txType domain.TransactionType, amount decimal.Decimal, description string) domain.Transaction {
	return domain.Transaction{
		ID:          s.idGen.Generate(),
		Type:        txType,
		Amount:      amount,
		Description: description,
		Date:        s.now(),
	}
}

// commit replaces the given accounts and writes the snapshot.
func (s *AccountStore) commit(ctx context.Context, accounts ...domain.Account) {
	for _, account := range accounts {
		s.accounts[account.ID] = account
	}
	s.persist(ctx)
}

// persist writes the directory. Failures are logged and counted but do not
// undo the in-memory transition.
func (s *AccountStore) persist(ctx context.Context) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultSaveTimeout)
	defer cancel()

	err := s.snapshots.Save(saveCtx, s.snapshotLocked())
	s.recorder.RecordSnapshotSave(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save snapshot")
	}
}

func (s *AccountStore) snapshotLocked() *domain.Snapshot {
	return &domain.Snapshot{
		Version:  domain.SnapshotVersion,
		SavedAt:  s.now(),
		Accounts: cloneAccounts(s.accounts),
	}
}

func (s *AccountStore) fail(ctx context.Context, op string, err error) error {
	s.recorder.RecordOperation(op, err)
	s.logger.Debug().Str("operation", op).Err(err).Msg("operation rejected")
	s.notify(ctx, domain.NotificationError, notificationText(err))
	return err
}

func (s *AccountStore) succeed(ctx context.Context, op string, level domain.NotificationLevel, message string) {
	s.recorder.RecordOperation(op, nil)
	s.logger.Debug().Str("operation", op).Str("account_id", s.session.CurrentAccountID).Msg("operation completed")
	s.notify(ctx, level, message)
}

func (s *AccountStore) notify(ctx context.Context, level domain.NotificationLevel, message string) {
	s.notifier.Notify(ctx, domain.Notification{Level: level, Message: message, At: s.now()})
}

func cloneOf(account domain.Account) *domain.Account {
	cp := account.Clone()
	return &cp
}

func cloneAccounts(accounts map[string]domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for id, account := range accounts {
		out[id] = account.Clone()
	}
	return out
}
