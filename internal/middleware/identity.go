package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/logging"
)

// Identity resolves the caller identity from the Authorization header and
// stores it in the request context. A bad or missing token degrades the
// caller to anonymous; it never rejects the request.
func Identity(gate *identity.Gate) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := gate.FromRequest(r)
			ctx := identity.ContextWithIdentity(r.Context(), ident)
			if ident.Authenticated {
				ctx = logging.WithCallerDID(ctx, ident.DID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
