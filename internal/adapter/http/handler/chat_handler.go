package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankchat/internal/adapter/http/dto"
	"github.com/iho/bankchat/internal/usecase"
)

// ChatService defines the behavior needed by ChatHandler.
type ChatService interface {
	Send(ctx context.Context, text string) (usecase.Reply, error)
	Transcript() []usecase.Message
	Busy() bool
}

// ChatHandler handles chat turns.
type ChatHandler struct {
	chat ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send submits one message and waits for the bot's reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reply, err := h.chat.Send(r.Context(), req.Message)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to send message", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatFromReply(reply))
}

// Transcript returns the conversation so far.
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.TranscriptResponse{
		Messages: h.chat.Transcript(),
		Busy:     h.chat.Busy(),
	})
}
