package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/domain"
)

type options struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
	jsonOutput     bool
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL:        o.baseURL,
		http:           &http.Client{Timeout: o.timeout},
		idempotencyKey: o.idempotencyKey,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bankchat-cli",
		Short:         "Bankchat CLI tool",
		Long:          `A command line interface for the bankchat banking assistant API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bankchat API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key sent with POST requests")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		loginCmd(opts),
		logoutCmd(opts),
		registerCmd(opts),
		balanceCmd(opts),
		historyCmd(opts),
		depositCmd(opts),
		withdrawCmd(opts),
		transferCmd(opts),
		chatCmd(opts),
		ledgerCmd(opts),
	)

	return rootCmd
}

func loginCmd(opts *options) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <account-id>",
		Short: "Log in to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SessionResponse
			err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/session",
				dto.LoginRequest{AccountID: args[0], Password: password}, &resp)
			if err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printNotifications(w, resp.Notifications)
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SessionResponse
			if err := opts.client().do(cmd.Context(), http.MethodDelete, "/api/v1/session", nil, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printNotifications(w, resp.Notifications)
			})
		},
	}
}

func registerCmd(opts *options) *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "register <account-id>",
		Short: "Create an account and log in to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.RegisterRequest{AccountID: args[0], Name: name, Password: password}
			req.Normalize()
			if err := req.Validate(); err != nil {
				return err
			}

			var resp dto.OperationResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printNotifications(w, resp.Notifications)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Account holder name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func balanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/accounts/me", nil, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s)\n", resp.Name, resp.ID)
				fmt.Fprintf(w, "Balance: %s\n", resp.BalanceFormatted)
			})
		},
	}
}

func historyCmd(opts *options) *cobra.Command {
	var (
		txType        string
		limit, offset int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions of the current account, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if txType != "" {
				query.Set("type", txType)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				query.Set("offset", strconv.Itoa(offset))
			}
			path := "/api/v1/accounts/me/transactions"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var resp dto.TransactionsResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printTransactions(w, resp)
			})
		},
	}
	cmd.Flags().StringVar(&txType, "type", "", "Filter by type (deposit, withdrawal, transfer-in, transfer-out)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")
	return cmd
}

func depositCmd(opts *options) *cobra.Command {
	return amountCmd(opts, "deposit <amount>", "Deposit money into the current account", "/api/v1/deposits")
}

func withdrawCmd(opts *options) *cobra.Command {
	return amountCmd(opts, "withdraw <amount>", "Withdraw money from the current account", "/api/v1/withdrawals")
}

func amountCmd(opts *options, use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			var resp dto.OperationResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, dto.AmountRequest{Amount: &amount}, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printOperation(w, resp)
			})
		},
	}
}

func transferCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <to-account-id> <amount>",
		Short: "Transfer money to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			req := dto.TransferRequest{ToAccountID: args[0], Amount: &amount}
			var resp dto.OperationResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/transfers", req, &resp); err != nil {
				return reportError(cmd.OutOrStdout(), err)
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) {
				printOperation(w, resp)
			})
		},
	}
}

func chatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the banking assistant",
		Long: `With a message, sends one chat turn and prints the reply.
Without one, starts an interactive session reading lines from stdin until "exit" or EOF.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				return sendChat(cmd.Context(), client, out, strings.Join(args, " "))
			}

			var transcript dto.TranscriptResponse
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/chat", nil, &transcript); err != nil {
				return reportError(out, err)
			}
			if len(transcript.Messages) > 0 {
				fmt.Fprintf(out, "Bot: %s\n", transcript.Messages[0].Text)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				if err := sendChat(cmd.Context(), client, out, line); err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
				}
			}
		},
	}
}

func sendChat(ctx context.Context, client *apiClient, out io.Writer, message string) error {
	var resp dto.ChatResponse
	if err := client.do(ctx, http.MethodPost, "/api/v1/chat", dto.ChatRequest{Message: message}, &resp); err != nil {
		return err
	}
	fmt.Fprintf(out, "Bot: %s\n", resp.Reply)
	return nil
}

func ledgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that every balance matches its transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	return ledgerCmd
}

func checkConsistency(ctx context.Context, opts *options, out io.Writer) error {
	var result dto.ConsistencyResponse
	err := opts.client().do(ctx, http.MethodGet, "/api/v1/ledger/consistency", nil, &result)

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		if jsonErr := json.Unmarshal(apiErr.Body, &result); jsonErr != nil {
			return err
		}
		if opts.jsonOutput {
			return printJSON(out, result)
		}
		fmt.Fprintf(out, "Consistency check FAILED\n")
		for _, d := range result.Discrepancies {
			fmt.Fprintf(out, "  %s: recorded %s, calculated %s, difference %s\n",
				d.AccountID, d.RecordedBalance, d.CalculatedBalance, d.Difference)
		}
		return fmt.Errorf("ledger is inconsistent: %d discrepancies", len(result.Discrepancies))
	}
	if err != nil {
		return err
	}

	return render(out, opts, result, func(w io.Writer) {
		fmt.Fprintf(w, "Consistency check PASSED\n")
		fmt.Fprintf(w, "Consistent: %v\n", result.Consistent)
		fmt.Fprintf(w, "Status: %s\n", result.Status)
		fmt.Fprintf(w, "Accounts: %d\n", result.TotalAccounts)
	})
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(value), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", value)
	}
	if err := domain.ValidateAmountLimits(amount); err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}

// render prints v as JSON with --json, otherwise calls human.
func render(out io.Writer, opts *options, v any, human func(io.Writer)) error {
	if opts.jsonOutput {
		return printJSON(out, v)
	}
	human(out)
	return nil
}

// reportError prints the notifications of a failed call and returns err.
func reportError(out io.Writer, err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		printNotifications(out, apiErr.Notifications())
	}
	return err
}

func printNotifications(w io.Writer, notes []domain.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}

func printOperation(w io.Writer, resp dto.OperationResponse) {
	printNotifications(w, resp.Notifications)
	if resp.Account != nil {
		fmt.Fprintf(w, "Balance: %s\n", resp.Account.BalanceFormatted)
	}
}

func printTransactions(w io.Writer, resp dto.TransactionsResponse) {
	if len(resp.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, tx := range resp.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tx.DateFormatted, tx.Label, tx.AmountFormatted, truncate(tx.Description, 48))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Showing %d of %d\n", len(resp.Transactions), resp.Total)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
