package middleware

import (
	"net/http"
	"strings"

	"github.com/granizoapp/granizo-backend/api/responses"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
)

const terminalIDHeader = "X-Terminal-Id"

// TerminalContext requires the terminal header on POS routes. Each terminal
// owns its own cart session, so there is no sensible fallback for a missing id.
func TerminalContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			terminalID := strings.TrimSpace(r.Header.Get(terminalIDHeader))
			if terminalID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Terminal-Id header required"))
				return
			}

			ctx := WithTerminalID(r.Context(), terminalID)
			if logg != nil {
				ctx = logg.WithTerminalID(ctx, terminalID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
