package usecase

import "time"

const (
	// DefaultChatDelay is the pause between receiving a chat turn and replying.
	DefaultChatDelay = time.Second

	// DefaultChatQueueSize bounds the number of turns waiting for the worker.
	DefaultChatQueueSize = 16

	// DefaultSaveTimeout bounds a single snapshot write.
	DefaultSaveTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPlaceholder marks a key whose request is still running.
	IdempotencyPlaceholder = "processing"
)

// Store operation names used for metrics and logs.
const (
	OpLogin    = "login"
	OpLogout   = "logout"
	OpRegister = "register"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
)
