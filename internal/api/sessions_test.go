package api

import (
	"net/http"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/metamui-network/metascan-api/internal/domain"
)

func TestSessionsListOrderAndFilter(t *testing.T) {
	store := fixtureStore()
	store.Sessions = []domain.Session{
		{ID: 7, StartAtBlock: 70, Era: 2, CountBlocks: 10, CountValidators: 4, CountNominators: 6},
		{ID: 8, StartAtBlock: 80, Era: 2, CountBlocks: 10, CountValidators: 4, CountNominators: 5},
		{ID: 6, StartAtBlock: 60, Era: 1, CountBlocks: 10, CountValidators: 3, CountNominators: 2},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/sessions")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 3 {
		t.Fatalf("meta.count = %d", got)
	}
	if got := gjson.GetBytes(body, "data.0.id").String(); got != "8" {
		t.Fatalf("sessions must list newest first, got %q", got)
	}

	byEra := get(router, "/sessions?filter[era]=1")
	body = byEra.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("era filter count = %d", got)
	}
	if got := gjson.GetBytes(body, "data.0.id").String(); got != "6" {
		t.Fatalf("unexpected session: %q", got)
	}
}

func TestSessionDetailWithIncludes(t *testing.T) {
	store := fixtureStore()
	store.Sessions = []domain.Session{{ID: 7, StartAtBlock: 70, Era: 2, CountValidators: 2}}
	store.SessionValidators = []domain.SessionValidator{
		{SessionID: 7, RankValidator: 0, ValidatorStash: "0xval00", BondedTotal: 1000, CountNominators: 1},
		{SessionID: 7, RankValidator: 1, ValidatorStash: "0xval01", BondedTotal: 800},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/sessions/7?include=blocks,validators")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "data.attributes.start_at_block").Int(); got != 70 {
		t.Fatalf("start_at_block = %d", got)
	}
	// Both fixture blocks belong to session 7, newest first.
	if got := gjson.GetBytes(body, "included.#(type==block).attributes.id").Int(); got != 101 {
		t.Fatalf("session blocks not included newest first: %s", body)
	}
	validators := gjson.GetBytes(body, "included.#(type==sessionvalidator)#").Array()
	if len(validators) != 2 {
		t.Fatalf("expected both validators included: %s", body)
	}
	if got := validators[0].Get("attributes.rank_validator").Int(); got != 0 {
		t.Fatalf("validators not ordered by rank: %s", body)
	}

	if rec := get(router, "/sessions/latest"); rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: status %d", rec.Code)
	}
	if rec := get(router, "/sessions/9"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing session: status %d", rec.Code)
	}
}

func TestSessionValidatorsLatestSessionSentinel(t *testing.T) {
	store := fixtureStore()
	store.Sessions = []domain.Session{{ID: 7, Era: 2}, {ID: 8, Era: 2}}
	store.SessionValidators = []domain.SessionValidator{
		{SessionID: 7, RankValidator: 0, ValidatorStash: "0xold"},
		{SessionID: 8, RankValidator: 0, ValidatorStash: "0xnew"},
		{SessionID: 8, RankValidator: 1, ValidatorStash: "0xnew2"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/session-validators?filter[session_id]=latestSession")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 2 {
		t.Fatalf("meta.count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.validator_stash").String(); got != "0xnew" {
		t.Fatalf("sentinel did not resolve to the latest session: %q", got)
	}
	if got := gjson.GetBytes(body, "data.0.id").String(); got != "8-0" {
		t.Fatalf("unexpected resource id: %q", got)
	}
}

func TestSessionValidatorsDedicatedLatestSessionFilter(t *testing.T) {
	store := fixtureStore()
	store.Sessions = []domain.Session{{ID: 1, Era: 1}, {ID: 2, Era: 1}}
	store.SessionValidators = []domain.SessionValidator{
		{SessionID: 1, RankValidator: 0, ValidatorStash: "0xold"},
		{SessionID: 2, RankValidator: 0, ValidatorStash: "0xnew"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/session-validators?filter[latestSession]=true")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("filter[latestSession] must narrow to the latest session, count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.validator_stash").String(); got != "0xnew" {
		t.Fatalf("unexpected validator: %q", got)
	}

	nominators := get(router, "/session-nominators?filter[latestSession]=true")
	if nominators.Code != http.StatusOK {
		t.Fatalf("nominators status %d: %s", nominators.Code, nominators.Body)
	}
}

func TestSessionValidatorsSentinelWithoutSessions(t *testing.T) {
	router := newTestRouter(t, fixtureStore())

	rec := get(router, "/session-validators?filter[session_id]=latestSession")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty chain sentinel: status %d", rec.Code)
	}
}

func TestSessionValidatorDetailWithNominators(t *testing.T) {
	store := fixtureStore()
	store.SessionValidators = []domain.SessionValidator{
		{SessionID: 7, RankValidator: 1, ValidatorStash: "did:mui:validator", BondedTotal: 800, CountNominators: 2},
	}
	store.Accounts = []domain.Account{
		{ID: "6469643aval", Address: "did:mui:validator", BalanceTotal: 800, IsValidator: true},
	}
	store.SessionNominators = []domain.SessionNominator{
		{SessionID: 7, RankValidator: 1, RankNominator: 1, NominatorStash: "0xnomB", Bonded: 100},
		{SessionID: 7, RankValidator: 1, RankNominator: 0, NominatorStash: "0xnomA", Bonded: 300},
		{SessionID: 7, RankValidator: 0, RankNominator: 0, NominatorStash: "0xother", Bonded: 50},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/session-validators/7-1?include=nominators,accounts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "data.attributes.validator_stash").String(); got != "did:mui:validator" {
		t.Fatalf("unexpected validator: %q", got)
	}
	if got := gjson.GetBytes(body, "included.#(type==account).attributes.address").String(); got != "did:mui:validator" {
		t.Fatalf("stash account not included: %s", body)
	}
	nominators := gjson.GetBytes(body, "included.#(type==sessionnominator)#").Array()
	if len(nominators) != 2 {
		t.Fatalf("only the validator's own nominators ride along: %s", body)
	}
	if got := nominators[0].Get("attributes.nominator_stash").String(); got != "0xnomA" {
		t.Fatalf("nominators not ordered by rank: %s", body)
	}
	if got := nominators[0].Get("id").String(); got != "7-1-0" {
		t.Fatalf("unexpected nominator id: %q", got)
	}

	if rec := get(router, "/session-validators/junk"); rec.Code != http.StatusNotFound {
		t.Fatalf("malformed key: status %d", rec.Code)
	}
	if rec := get(router, "/session-validators/7-9"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing validator: status %d", rec.Code)
	}
}

func TestSessionNominatorsList(t *testing.T) {
	store := fixtureStore()
	store.Sessions = []domain.Session{{ID: 7, Era: 2}}
	store.SessionNominators = []domain.SessionNominator{
		{SessionID: 7, RankValidator: 0, RankNominator: 0, NominatorStash: "0xnomA", Bonded: 300},
		{SessionID: 7, RankValidator: 1, RankNominator: 0, NominatorStash: "0xnomB", Bonded: 100},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/session-nominators?filter[session_id]=latestSession&filter[rank_validator]=1")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("meta.count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.nominator_stash").String(); got != "0xnomB" {
		t.Fatalf("unexpected nominator: %q", got)
	}
}
