package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/adapter/repository/memory"
	"github.com/iho/bankchat/internal/infrastructure/notify"
	"github.com/iho/bankchat/internal/usecase"
	"github.com/iho/bankchat/internal/usecase/mocks"
)

var handlerNow = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *usecase.AccountStore {
	t.Helper()

	store, err := usecase.NewAccountStore(context.Background(), usecase.AccountStoreConfig{
		Snapshots: memory.NewSnapshotStore(),
		IDGen:     mocks.NewStubIDGenerator(),
		Notifier:  notify.ContextNotifier{},
		Logger:    zerolog.Nop(),
		Clock:     func() time.Time { return handlerNow },
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func loginJohn(t *testing.T, store *usecase.AccountStore) {
	t.Helper()
	if _, err := store.Login(context.Background(), "12345", "john123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

// newRequest builds a request carrying a notification collector, the way
// the router's middleware does.
func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(notify.WithCollector(req.Context(), &notify.Collector{}))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
