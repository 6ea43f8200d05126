package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BrewMyTech/grok-mcp/codec"
)

type ctxKey struct{}

// Subject returns the verified token subject stored by Middleware.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKey{}).(string)
	return s, ok
}

// Middleware rejects requests without a valid bearer token. The rejection
// body is a JSON-RPC error so protocol clients can surface it.
func Middleware(t *T) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := t.Extract(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, err)
				return
			}
			subject, err := t.Verify(raw)
			if err != nil {
				unauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, subject)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="grok-mcp"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(codec.NewErrorResponse(nil, codec.NewError(codec.InvalidRequest, err.Error())))
}
