package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/domain"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	Login(ctx context.Context, accountID, password string) (*domain.Account, error)
	Logout(ctx context.Context)
	CurrentAccount() (*domain.Account, bool)
}

// SessionHandler handles login, logout and session status.
type SessionHandler struct {
	sessions SessionService
	now      func() time.Time
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions, now: utcNow}
}

// Login opens a session for the account.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.sessions.Login(r.Context(), req.AccountID, req.Password)
	if err != nil {
		writeDomainError(w, r, "login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Authenticated: true,
		Account:       dto.AccountFromDomain(account, h.now()),
		Notifications: notifications(r),
	})
}

// Logout clears the session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Authenticated: false,
		Notifications: notifications(r),
	})
}

// Status reports who is logged in.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	account, ok := h.sessions.CurrentAccount()
	if !ok {
		writeJSON(w, http.StatusOK, dto.SessionResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Authenticated: true,
		Account:       dto.AccountFromDomain(account, h.now()),
	})
}
