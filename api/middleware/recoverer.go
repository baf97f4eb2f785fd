package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/jaummdev/nexa-ecommerce-backend/api/responses"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 response. http.ErrAbortHandler is
// re-raised so net/http can abort the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":       fmt.Sprint(rec),
						"panic_stack": string(debug.Stack()),
					})
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", rec), "panic recovered"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
