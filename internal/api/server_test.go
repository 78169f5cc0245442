package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"

	"github.com/metamui-network/metascan-api/internal/cache"
	"github.com/metamui-network/metascan-api/internal/config"
	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/logging"
	"github.com/metamui-network/metascan-api/internal/metrics"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/storage/memory"
)

const (
	aliceDID = "did:mui:alice"
	bobDID   = "did:mui:bob"
)

func testTTLs() config.CacheConfig {
	return config.CacheConfig{
		DefaultTTL:       6 * time.Second,
		StatsTTL:         6 * time.Second,
		NetworkStatsTTL:  time.Minute,
		SessionTTL:       time.Minute,
		RuntimeTTL:       time.Hour,
		AccountDetailTTL: 12 * time.Second,
	}
}

func newTestRouter(t *testing.T, store *memory.Store, opts ...ServerOption) *mux.Router {
	t.Helper()
	responseCache := cache.NewMemory()
	t.Cleanup(responseCache.Close)

	policy := privacy.NewPolicy(4, 12, '*')
	m := metrics.New(prometheus.NewRegistry())
	log := logging.NewDefault("test")

	server := NewServer(store, responseCache, testTTLs(), m, policy, log, opts...)
	router := mux.NewRouter()
	server.RegisterRoutes(router)
	return router
}

func get(router *mux.Router, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func getAs(router *mux.Router, target string, ident identity.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(identity.ContextWithIdentity(req.Context(), ident))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func attr(did string) domain.EventAttribute {
	encoded, _ := json.Marshal(privacy.EncodeDID(did))
	return domain.EventAttribute{Type: "Did", Value: encoded}
}

func balance(n string) domain.EventAttribute {
	return domain.EventAttribute{Type: "Balance", Value: json.RawMessage(n)}
}

// fixtureStore seeds two blocks, one transfer between alice and bob plus
// its system events, and the matching search index rows.
func fixtureStore() *memory.Store {
	store := memory.New()
	store.Blocks = []domain.Block{
		{ID: 100, ParentID: 99, Hash: "0xaa01", ParentHash: "0xaa00", SpecVersionID: 3, SessionID: 7,
			CountExtrinsics: 2, CountEvents: 3, Datetime: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
		{ID: 101, ParentID: 100, Hash: "0xaa02", ParentHash: "0xaa01", SpecVersionID: 3, SessionID: 7,
			Datetime: time.Date(2026, 5, 1, 12, 0, 6, 0, time.UTC)},
	}
	store.Events = []domain.Event{
		{BlockID: 100, EventIdx: 0, ExtrinsicIdx: 0, ModuleID: "system", EventID: "ExtrinsicSuccess", SpecVersionID: 3},
		{BlockID: 100, EventIdx: 2, ExtrinsicIdx: 1, ModuleID: "balances", EventID: "Transfer", SpecVersionID: 3,
			Attributes: []domain.EventAttribute{attr(aliceDID), attr(bobDID), balance("500"), balance("5")}},
		{BlockID: 100, EventIdx: 3, ExtrinsicIdx: 1, ModuleID: "system", EventID: "ExtrinsicSuccess", SpecVersionID: 3},
	}
	store.Extrinsics = []domain.Extrinsic{
		{BlockID: 100, ExtrinsicIdx: 0, ModuleID: "timestamp", CallID: "set", SpecVersionID: 3},
		{BlockID: 100, ExtrinsicIdx: 1, ExtrinsicHash: "0xbb01", Signed: 1, ModuleID: "balances", CallID: "transfer",
			Address: privacy.StripHexPrefix(privacy.EncodeDID(aliceDID)), Success: 1, SpecVersionID: 3},
	}
	store.Index = []domain.SearchIndexEntry{
		{ID: 1, IndexTypeID: domain.IndexBalanceTransfer, AccountID: aliceDID, BlockID: 100, ExtrinsicIdx: 1, EventIdx: 2, SortingValue: 1002},
	}
	return store
}

func TestListResponsesAreCachedForAnonymousCallers(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	first := get(router, "/blocks")
	if first.Code != http.StatusOK {
		t.Fatalf("status %d: %s", first.Code, first.Body)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first request X-Cache = %q", got)
	}

	second := get(router, "/blocks")
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("second request X-Cache = %q", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached body differs from the computed one")
	}

	// A different query string is a different cache entry.
	other := get(router, "/blocks?page[number]=2")
	if got := other.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("distinct URL X-Cache = %q", got)
	}
}

func TestAuthenticatedResponsesBypassCache(t *testing.T) {
	router := newTestRouter(t, fixtureStore())
	ident := identity.Identity{DID: aliceDID, Authenticated: true}

	for i := 0; i < 2; i++ {
		rec := getAs(router, "/balances/transfers/100-2", ident)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body)
		}
		if got := rec.Header().Get("X-Cache"); got != "MISS" {
			t.Fatalf("authenticated request %d X-Cache = %q", i, got)
		}
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	rec := get(router, "/blocks/junk")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Fatalf("error response must carry no cache header, got %q", got)
	}
}

func TestBlocksListMeta(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	rec := get(router, "/blocks")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 2 {
		t.Fatalf("meta.count = %d", got)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.id").Int(); got != 101 {
		t.Fatalf("blocks must list newest first, got %d", got)
	}
}

func TestBlockDetailByIDAndHash(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	byID := get(router, "/blocks/100")
	if byID.Code != http.StatusOK {
		t.Fatalf("by id: status %d", byID.Code)
	}
	if got := gjson.GetBytes(byID.Body.Bytes(), "data.attributes.hash").String(); got != "0xaa01" {
		t.Fatalf("unexpected hash: %q", got)
	}

	byHash := get(router, "/blocks/0xaa01")
	if byHash.Code != http.StatusOK {
		t.Fatalf("by hash: status %d", byHash.Code)
	}
	if got := gjson.GetBytes(byHash.Body.Bytes(), "data.id").String(); got != "100" {
		t.Fatalf("unexpected id: %q", got)
	}

	missing := get(router, "/blocks/404404")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing block: status %d", missing.Code)
	}
}

func TestEventsListHidesSystemEventsByDefault(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	rec := get(router, "/events")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("system events not excluded, count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.event_id").String(); got != "Transfer" {
		t.Fatalf("unexpected event: %q", got)
	}

	explicit := get(router, "/events?filter[event_id]=ExtrinsicSuccess")
	if got := gjson.GetBytes(explicit.Body.Bytes(), "meta.count").Int(); got != 2 {
		t.Fatalf("explicit event filter must lift the exclusion, count = %d", got)
	}
}

func TestHealthz(t *testing.T) {
	okRouter := newTestRouter(t, fixtureStore())
	if rec := get(okRouter, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	degraded := newTestRouter(t, fixtureStore(), WithHealthCheck(func(context.Context) error {
		return errDegraded
	}))
	rec := get(degraded, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
	if got := gjson.GetBytes(rec.Body.Bytes(), "status").String(); got != "degraded" {
		t.Fatalf("unexpected status: %q", got)
	}
}

var errDegraded = errors.New("connection refused")
