package api

import (
	"net/http"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage/memory"
)

func statsFixture() domain.Stats {
	return domain.Stats{
		ID:                 "mui",
		TokenName:          "MetaMUI",
		Symbol:             "MUI",
		Site:               "https://metamui.network",
		Decimals:           6,
		CurrentCirculation: 250000000,
		TotalSupply:        1000000000,
	}
}

func TestStatsDetailPopulated(t *testing.T) {
	store := fixtureStore()
	store.StatsRows = []domain.Stats{statsFixture()}
	router := newTestRouter(t, store)

	rec := get(router, "/stats/mui")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "data.attributes.symbol").String(); got != "MUI" {
		t.Fatalf("unexpected symbol: %q", got)
	}
	if got := gjson.GetBytes(body, "data.attributes.total_supply").Float(); got != 1000000000 {
		t.Fatalf("unexpected total supply: %v", got)
	}
}

func TestStatsDetailSentinelKeepsShape(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	rec := get(router, "/stats/mui")
	if rec.Code != http.StatusOK {
		t.Fatalf("missing stats row must still serve 200, got %d", rec.Code)
	}
	body := rec.Body.Bytes()
	for _, field := range []string{"token_name", "symbol", "site", "decimals", "current_circulation", "total_supply"} {
		if got := gjson.GetBytes(body, "data.attributes."+field).String(); got != "N/A" {
			t.Fatalf("field %s = %q, want N/A", field, got)
		}
	}
}

func TestNetworkStatsBestBlock(t *testing.T) {
	store := fixtureStore()
	store.StatsRows = []domain.Stats{statsFixture()}
	router := newTestRouter(t, store)

	rec := get(router, "/networkstats/mui")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "data.attributes.best_block").Int(); got != 101 {
		t.Fatalf("best block = %d", got)
	}
	if got := gjson.GetBytes(body, "data.attributes.symbol").String(); got != "MUI" {
		t.Fatalf("unexpected symbol: %q", got)
	}
}

func TestNetworkStatsSentinelOnEmptyChain(t *testing.T) {
	router := newTestRouter(t, memory.New())

	rec := get(router, "/networkstats/mui")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := gjson.GetBytes(rec.Body.Bytes(), "data.attributes.best_block").String(); got != "N/A" {
		t.Fatalf("best block sentinel = %q", got)
	}
}

func TestStatsFieldScalar(t *testing.T) {
	store := fixtureStore()
	store.StatsRows = []domain.Stats{statsFixture()}
	router := newTestRouter(t, store)

	rec := get(router, "/stats/mui/total_supply")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Body.String(); got != "1000000000" {
		t.Fatalf("scalar body = %q", got)
	}

	circulation := get(router, "/stats/mui/current_circulation")
	if got := circulation.Body.String(); got != "250000000" {
		t.Fatalf("scalar body = %q", got)
	}
}

func TestStatsFieldNotFound(t *testing.T) {
	store := fixtureStore()
	store.StatsRows = []domain.Stats{statsFixture()}
	router := newTestRouter(t, store)

	unknownField := get(router, "/stats/mui/burn_rate")
	if unknownField.Code != http.StatusNotFound {
		t.Fatalf("unknown field: status %d", unknownField.Code)
	}
	if got := gjson.GetBytes(unknownField.Body.Bytes(), "errors.0.message").String(); got != "Requested data not found" {
		t.Fatalf("unexpected message: %q", got)
	}

	unknownCurrency := get(router, "/stats/doge/total_supply")
	if unknownCurrency.Code != http.StatusNotFound {
		t.Fatalf("unknown currency: status %d", unknownCurrency.Code)
	}
}
