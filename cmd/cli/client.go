package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/adapter/http/middleware"
	"github.com/iho/bankchat/internal/domain"
)

// apiClient calls the bankchat HTTP API.
type apiClient struct {
	baseURL        string
	http           *http.Client
	idempotencyKey string
}

// apiError is a non-2xx response.
type apiError struct {
	Status int
	Body   []byte
	Resp   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := e.Resp.Message
	if msg == "" {
		msg = e.Resp.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	return fmt.Sprintf("request failed (status %d): %s", e.Status, msg)
}

// Notifications returns the notifications carried by the error body.
func (e *apiError) Notifications() []domain.Notification {
	return e.Resp.Notifications
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost && c.idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, c.idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Body: raw}
		_ = json.Unmarshal(raw, &apiErr.Resp)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
