package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

// SnapshotStore persists the account directory under one named slot.
type SnapshotStore interface {
	// Load returns the stored snapshot, or nil when the slot is empty.
	Load(ctx context.Context) (*domain.Snapshot, error)
	// Save overwrites the slot with snapshot.
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// Pinger is implemented by snapshot stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Notifier receives fire-and-forget messages about store operations.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Recorder collects operational metrics.
type Recorder interface {
	RecordOperation(operation string, err error)
	RecordTransaction(txType domain.TransactionType, amount decimal.Decimal)
	RecordRegistration()
	SetSessionActive(active bool)
	RecordChatTurn(intent string, duration time.Duration)
	RecordSnapshotSave(err error)
}

// BankingService is the part of the account store the chat resolver drives.
type BankingService interface {
	Session() domain.Session
	CurrentAccount() (*domain.Account, bool)
	AccountExists(id string) bool
	Deposit(ctx context.Context, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (*domain.Account, error)
	Transfer(ctx context.Context, toAccountID string, amount decimal.Decimal) (*domain.Account, error)
}

// DirectorySource exposes a consistent copy of the account directory.
type DirectorySource interface {
	Accounts() map[string]domain.Account
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed so it can be retried.
	Release(ctx context.Context, key string) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notification) {}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, error)                            {}
func (nopRecorder) RecordTransaction(domain.TransactionType, decimal.Decimal) {}
func (nopRecorder) RecordRegistration()                                      {}
func (nopRecorder) SetSessionActive(bool)                                    {}
func (nopRecorder) RecordChatTurn(string, time.Duration)                     {}
func (nopRecorder) RecordSnapshotSave(error)                                 {}
