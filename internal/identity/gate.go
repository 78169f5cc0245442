// Package identity validates bearer tokens and resolves the caller DID.
// Validation failures never fail a request: the caller simply degrades to
// an anonymous identity.
package identity

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/metamui-network/metascan-api/internal/logging"
)

// Identity is the per-request result of token validation. It is derived
// fresh from the bearer token and never persisted.
type Identity struct {
	DID           string
	Authenticated bool
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// Claims is the token payload issued by the identity provider. The DID is
// nested under "data", mirroring the issuer's token layout.
type Claims struct {
	Data struct {
		DID string `json:"did"`
	} `json:"data"`
	jwt.RegisteredClaims
}

// Gate validates tokens against a set of trusted HS256 keys and issuers.
type Gate struct {
	keys    [][]byte
	issuers map[string]bool
	log     *logging.Logger
}

// NewGate builds a gate from the configured validator keys and trusted
// issuers.
func NewGate(keys []string, issuers []string, log *logging.Logger) *Gate {
	g := &Gate{issuers: make(map[string]bool), log: log}
	if g.log == nil {
		g.log = logging.NewDefault("identity")
	}
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			g.keys = append(g.keys, []byte(key))
		}
	}
	for _, iss := range issuers {
		if iss = strings.TrimSpace(iss); iss != "" {
			g.issuers[iss] = true
		}
	}
	return g
}

// FromRequest resolves the caller identity from the Authorization header.
func (g *Gate) FromRequest(r *http.Request) Identity {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Anonymous
	}
	token := header
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		token = parts[1]
	}
	return g.Validate(token)
}

// Validate checks the token against every trusted key in turn and accepts
// the first one whose signature verifies, provided the issuer is trusted
// and the token has not expired. Any failure yields Anonymous.
func (g *Gate) Validate(tokenString string) Identity {
	if tokenString == "" || len(g.keys) == 0 {
		return Anonymous
	}

	for _, key := range g.keys {
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			continue
		}

		issuer := claims.Issuer
		if !g.issuers[issuer] {
			g.log.WithField("issuer", issuer).Debug("token issuer not trusted")
			return Anonymous
		}
		did := strings.TrimSpace(claims.Data.DID)
		if did == "" {
			return Anonymous
		}
		return Identity{DID: did, Authenticated: true}
	}

	g.log.Debug("token not signed by any trusted validator")
	return Anonymous
}
