package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/metamui-network/metascan-api/internal/cache"
	"github.com/metamui-network/metascan-api/internal/chainrpc"
	"github.com/metamui-network/metascan-api/internal/config"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/logging"
	"github.com/metamui-network/metascan-api/internal/metrics"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
	"github.com/metamui-network/metascan-api/internal/transfer"
)

// Server bundles the collaborators shared by every resource handler.
type Server struct {
	store      storage.Store
	resolver   *query.Resolver
	cache      cache.Cache
	ttl        config.CacheConfig
	metrics    *metrics.Metrics
	log        *logging.Logger
	policy     privacy.Policy
	normalizer *transfer.Normalizer
	chain      *chainrpc.Client
	health     func(ctx context.Context) error
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithChainClient enables live balance retrieval on the account detail
// endpoint.
func WithChainClient(client *chainrpc.Client) ServerOption {
	return func(s *Server) { s.chain = client }
}

// WithHealthCheck wires a readiness probe, typically the database ping.
func WithHealthCheck(check func(ctx context.Context) error) ServerOption {
	return func(s *Server) { s.health = check }
}

// NewServer builds the resource server.
func NewServer(store storage.Store, responseCache cache.Cache, ttl config.CacheConfig, m *metrics.Metrics, policy privacy.Policy, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		store:      store,
		resolver:   query.NewResolver(store),
		cache:      responseCache,
		ttl:        ttl,
		metrics:    m,
		log:        log,
		policy:     policy,
		normalizer: transfer.New(policy),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cached wraps a response builder with the read-through response cache.
// The key is the method plus the full request URL. Responses built for an
// authenticated caller vary by identity and are never cached; errors are
// never cached either.
func (s *Server) cached(resource string, ttl time.Duration, build func(r *http.Request) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity.FromContext(r.Context()).Authenticated {
			body, err := build(r)
			if err != nil {
				writeError(w, s.log, err)
				return
			}
			w.Header().Set("X-Cache", "MISS")
			writeJSON(w, http.StatusOK, body)
			return
		}

		key := cache.Key(r.Method, r.URL.String())
		body, hit, err := s.cache.GetOrCompute(r.Context(), key, ttl, func(context.Context) ([]byte, error) {
			return build(r)
		})
		if err != nil {
			writeError(w, s.log, err)
			return
		}

		result := "miss"
		header := "MISS"
		if hit {
			result = "hit"
			header = "HIT"
		}
		s.metrics.RecordCacheResult(resource, result)
		w.Header().Set("X-Cache", header)
		writeJSON(w, http.StatusOK, body)
	}
}

// notFoundIf maps a store miss onto the client-facing not-found error,
// leaving every other failure untouched.
func notFoundIf(err error, resource string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apierrors.NotFound(resource)
	}
	return err
}

func listMeta(params url.Values, total int) ListMeta {
	limit, offset := query.ParsePage(params)
	return ListMeta{Count: total, PageSize: limit, PageNumber: offset/limit + 1}
}
