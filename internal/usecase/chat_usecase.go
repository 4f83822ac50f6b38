package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/domain"
	"github.com/iho/bankchat/internal/format"
)

// Chat intents.
const (
	IntentLoginRequired = "login_required"
	IntentBalance       = "balance"
	IntentDeposit       = "deposit"
	IntentWithdraw      = "withdraw"
	IntentTransfer      = "transfer"
	IntentHelp          = "help"
	IntentFallback      = "fallback"
)

const (
	GreetingMessage = "Hello! Welcome to the Banking Chatbot. How can I help you today?"
	LoginPrompt     = "Please log in first to access banking services."
	FallbackMessage = "I'm not sure how to help with that. You can ask me about your balance, " +
		"make deposits or withdrawals, or transfer money to another account. Type 'help' for more information."
	HelpMessage = "I can help you with the following banking operations:\n\n" +
		"• Check your balance (\"What's my balance?\")\n" +
		"• Deposit money (\"Deposit $100\")\n" +
		"• Withdraw money (\"Withdraw $50\")\n" +
		"• Transfer money (\"Transfer $75 to account 67890\")\n" +
		"• View your transaction history (run \"bankchat-cli history\")\n\n" +
		"How can I assist you today?"
)

// Reply is the resolver's answer to one chat turn.
type Reply struct {
	Intent string `json:"intent"`
	Text   string `json:"text"`
}

type rule struct {
	intent string
	match  func(lower string) bool
	handle func(ctx context.Context, input string) string
}

// ChatResolver maps free text to at most one store call and a reply.
// Rules are tried in order and the first match wins.
type ChatResolver struct {
	bank   BankingService
	rules  []rule
	logger zerolog.Logger
}

// NewChatResolver creates a resolver driving bank.
func NewChatResolver(bank BankingService, logger zerolog.Logger) *ChatResolver {
	r := &ChatResolver{
		bank:   bank,
		logger: logger.With().Str("component", "chat_resolver").Logger(),
	}
	r.rules = []rule{
		{intent: IntentBalance, match: containsAny("balance", "how much", "check balance"), handle: r.balance},
		{intent: IntentDeposit, match: containsAny("deposit"), handle: r.deposit},
		{intent: IntentWithdraw, match: containsAny("withdraw", "take out"), handle: r.withdraw},
		{intent: IntentTransfer, match: containsAny("transfer", "send money"), handle: r.transfer},
		{intent: IntentHelp, match: isHelp, handle: func(context.Context, string) string { return HelpMessage }},
	}
	return r
}

// Resolve answers one turn. It never fails: unknown input gets the
// fallback reply.
func (r *ChatResolver) Resolve(ctx context.Context, input string) Reply {
	if !r.bank.Session().IsAuthenticated() {
		return Reply{Intent: IntentLoginRequired, Text: LoginPrompt}
	}

	lower := strings.ToLower(strings.TrimSpace(input))
	for _, rl := range r.rules {
		if rl.match(lower) {
			text := rl.handle(ctx, input)
			r.logger.Debug().Str("intent", rl.intent).Msg("chat turn resolved")
			return Reply{Intent: rl.intent, Text: text}
		}
	}

	return Reply{Intent: IntentFallback, Text: FallbackMessage}
}

func (r *ChatResolver) balance(context.Context, string) string {
	account, ok := r.bank.CurrentAccount()
	if !ok {
		return LoginPrompt
	}
	return fmt.Sprintf("Your current balance is %s.", format.Currency(account.Balance))
}

func (r *ChatResolver) deposit(ctx context.Context, input string) string {
	amount, ok := ExtractAmount(input)
	if !ok {
		return "How much would you like to deposit? Please specify an amount (e.g., deposit $100)."
	}

	account, err := r.bank.Deposit(ctx, amount)
	if err != nil {
		return failureReply("deposit", err)
	}
	return fmt.Sprintf("Successfully deposited %s. Your new balance is %s.",
		format.Currency(amount), format.Currency(account.Balance))
}

func (r *ChatResolver) withdraw(ctx context.Context, input string) string {
	amount, ok := ExtractAmount(input)
	if !ok {
		return "How much would you like to withdraw? Please specify an amount (e.g., withdraw $50)."
	}

	account, err := r.bank.Withdraw(ctx, amount)
	if err != nil {
		return failureReply("withdrawal", err)
	}
	return fmt.Sprintf("Successfully withdrew %s. Your new balance is %s.",
		format.Currency(amount), format.Currency(account.Balance))
}

func (r *ChatResolver) transfer(ctx context.Context, input string) string {
	amount, hasAmount, to, hasAccount := extractTransfer(input)

	switch {
	case hasAmount && !hasAccount:
		return "To which account would you like to transfer money? Please specify the account number (e.g., transfer $100 to account 67890)."
	case hasAccount && !hasAmount:
		return "How much would you like to transfer? Please specify an amount (e.g., transfer $100 to account 67890)."
	case !hasAccount && !hasAmount:
		return "Please specify both an amount and an account number for the transfer (e.g., transfer $100 to account 67890)."
	}

	if !r.bank.AccountExists(to) {
		return fmt.Sprintf("Account %s does not exist. Please check the account number.", to)
	}

	account, err := r.bank.Transfer(ctx, to, amount)
	if err != nil {
		return failureReply("transfer", err)
	}
	return fmt.Sprintf("Successfully transferred %s to account %s. Your new balance is %s.",
		format.Currency(amount), to, format.Currency(account.Balance))
}

// failureReply translates a store rejection into a chat sentence.
func failureReply(operation string, err error) string {
	prefix := fmt.Sprintf("I couldn't process your %s.", operation)

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return LoginPrompt
	case errors.Is(err, domain.ErrInvalidAmount):
		return prefix + " Please make sure the amount is valid."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return prefix + " Please check that you have sufficient funds."
	case errors.Is(err, domain.ErrSameAccount):
		return prefix + " You can't transfer money to your own account."
	case errors.Is(err, domain.ErrRecipientNotFound):
		return prefix + " The recipient account was not found."
	default:
		return prefix + " Please try again."
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
}

func isHelp(lower string) bool {
	return strings.Contains(lower, "help") || lower == "?"
}
