package middleware

import (
	"net/http"

	"github.com/iho/bankchat/internal/infrastructure/notify"
)

// Notifications gives every request its own notification collector so
// handlers can return what the store emitted.
func Notifications(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := notify.WithCollector(r.Context(), &notify.Collector{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
