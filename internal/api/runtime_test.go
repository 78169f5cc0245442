package api

import (
	"net/http"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/metamui-network/metascan-api/internal/domain"
)

func TestRuntimesListAndDetail(t *testing.T) {
	store := fixtureStore()
	store.Runtimes = []domain.Runtime{
		{ID: 2, SpecName: "metamui", SpecVersion: 2, ImplName: "metamui-node", CountModules: 8},
		{ID: 3, SpecName: "metamui", SpecVersion: 3, ImplName: "metamui-node", CountModules: 9, CountCalls: 42},
	}
	store.RuntimeModules = []domain.RuntimeModule{
		{ID: 10, SpecVersion: 3, ModuleID: "balances", Name: "Balances", Prefix: "Balances"},
		{ID: 11, SpecVersion: 3, ModuleID: "system", Name: "System", Prefix: "System"},
		{ID: 5, SpecVersion: 2, ModuleID: "balances", Name: "Balances", Prefix: "Balances"},
	}
	store.RuntimeTypes = []domain.RuntimeType{
		{ID: 1, SpecVersion: 3, TypeString: "Balance", DecoderName: "Balance", IsPrimitive: true},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtimes")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 2 {
		t.Fatalf("meta.count = %d", got)
	}
	if got := gjson.GetBytes(body, "data.0.id").String(); got != "3" {
		t.Fatalf("runtimes must list newest spec first, got %q", got)
	}

	detail := get(router, "/runtimes/3?include=modules,types")
	if detail.Code != http.StatusOK {
		t.Fatalf("status %d: %s", detail.Code, detail.Body)
	}
	body = detail.Body.Bytes()
	if got := gjson.GetBytes(body, "data.attributes.count_calls").Int(); got != 42 {
		t.Fatalf("count_calls = %d", got)
	}
	modules := gjson.GetBytes(body, "included.#(type==runtimemodule)#").Array()
	if len(modules) != 2 {
		t.Fatalf("only the runtime's own modules ride along: %s", body)
	}
	if got := modules[0].Get("attributes.module_id").String(); got != "balances" {
		t.Fatalf("modules not ordered by id: %s", body)
	}
	if got := gjson.GetBytes(body, "included.#(type==runtimetype).id").String(); got != "3-Balance" {
		t.Fatalf("runtime type not included: %s", body)
	}

	if rec := get(router, "/runtimes/latest"); rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: status %d", rec.Code)
	}
	if rec := get(router, "/runtimes/9"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing runtime: status %d", rec.Code)
	}
}

func TestRuntimeModulesLatestRuntimeSentinel(t *testing.T) {
	store := fixtureStore()
	store.Runtimes = []domain.Runtime{
		{ID: 2, SpecName: "metamui", SpecVersion: 2},
		{ID: 3, SpecName: "metamui", SpecVersion: 3},
	}
	store.RuntimeModules = []domain.RuntimeModule{
		{ID: 5, SpecVersion: 2, ModuleID: "balances"},
		{ID: 10, SpecVersion: 3, ModuleID: "balances"},
		{ID: 11, SpecVersion: 3, ModuleID: "system"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-modules?filter[spec_version]=latestRuntime")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 2 {
		t.Fatalf("meta.count = %d: %s", got, body)
	}
	for _, resource := range gjson.GetBytes(body, "data").Array() {
		if got := resource.Get("attributes.spec_version").Int(); got != 3 {
			t.Fatalf("sentinel did not resolve to the latest spec: %s", resource.Raw)
		}
	}

	// The dedicated parameter selects the same rewrite.
	dedicated := get(router, "/runtime-modules?filter[latestRuntime]=true")
	body = dedicated.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 2 {
		t.Fatalf("filter[latestRuntime] count = %d: %s", got, body)
	}
	for _, resource := range gjson.GetBytes(body, "data").Array() {
		if got := resource.Get("attributes.spec_version").Int(); got != 3 {
			t.Fatalf("filter[latestRuntime] not honored: %s", resource.Raw)
		}
	}
}

func TestRuntimeCallsDedicatedLatestRuntimeFilter(t *testing.T) {
	store := fixtureStore()
	store.Runtimes = []domain.Runtime{
		{ID: 2, SpecName: "metamui", SpecVersion: 2},
		{ID: 3, SpecName: "metamui", SpecVersion: 3},
	}
	store.RuntimeCalls = []domain.RuntimeCall{
		{ID: 1, SpecVersion: 2, ModuleID: "balances", CallID: "transfer"},
		{ID: 2, SpecVersion: 3, ModuleID: "balances", CallID: "transfer"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-calls?filter[latestRuntime]=true")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("filter[latestRuntime] count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.spec_version").Int(); got != 3 {
		t.Fatalf("unexpected call row: %s", body)
	}
}

func TestRuntimeModuleDetailIncludes(t *testing.T) {
	store := fixtureStore()
	store.RuntimeModules = []domain.RuntimeModule{
		{ID: 10, SpecVersion: 3, ModuleID: "balances", Name: "Balances"},
	}
	store.RuntimeCalls = []domain.RuntimeCall{
		{ID: 1, SpecVersion: 3, ModuleID: "balances", CallID: "transfer", Name: "transfer", CountParams: 2},
	}
	store.RuntimeEvents = []domain.RuntimeEvent{
		{ID: 5, SpecVersion: 3, ModuleID: "balances", EventID: "Transfer", Name: "Transfer"},
	}
	store.RuntimeStorageItems = []domain.RuntimeStorage{
		{ID: 7, SpecVersion: 3, ModuleID: "balances", Name: "TotalIssuance", TypeValue: "Balance"},
	}
	store.RuntimeConstants = []domain.RuntimeConstant{
		{ID: 9, SpecVersion: 3, ModuleID: "balances", Name: "ExistentialDeposit", Type: "Balance", Value: "1"},
	}
	store.RuntimeErrors = []domain.RuntimeErrorMessage{
		{ID: 11, SpecVersion: 3, ModuleID: "balances", ModuleIndex: 5, Index: 3, Name: "InsufficientBalance"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-modules/3-balances?include=calls,events,storage,constants,errors")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "data.id").String(); got != "3-balances" {
		t.Fatalf("unexpected id: %q", got)
	}
	for _, want := range []string{
		"included.#(type==runtimecall).attributes.call_id",
		"included.#(type==runtimeevent).attributes.event_id",
		"included.#(type==runtimestorage).attributes.name",
		"included.#(type==runtimeconstant).attributes.name",
		"included.#(type==runtimeerrormessage).attributes.name",
	} {
		if !gjson.GetBytes(body, want).Exists() {
			t.Fatalf("missing include %s: %s", want, body)
		}
	}

	if rec := get(router, "/runtime-modules/balances"); rec.Code != http.StatusNotFound {
		t.Fatalf("segment-short key: status %d", rec.Code)
	}
	if rec := get(router, "/runtime-modules/x-balances"); rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric spec: status %d", rec.Code)
	}
}

func TestRuntimeCallDetail(t *testing.T) {
	store := fixtureStore()
	store.Extrinsics[1].Params = transferCallParams()
	store.RuntimeCalls = []domain.RuntimeCall{
		{ID: 1, SpecVersion: 3, ModuleID: "balances", CallID: "transfer", Name: "transfer", CountParams: 2,
			Documentation: "Transfer some liquid free balance to another account."},
	}
	store.RuntimeCallParams = []domain.RuntimeCallParam{
		{ID: 2, RuntimeCallID: 1, Name: "value", Type: "Compact<Balance>"},
		{ID: 1, RuntimeCallID: 1, Name: "dest", Type: "Did"},
		{ID: 3, RuntimeCallID: 9, Name: "other", Type: "u32"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-calls/3-balances-transfer?include=recent_extrinsics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	params := gjson.GetBytes(body, "data.attributes.params").Array()
	if len(params) != 2 {
		t.Fatalf("own params only, declaration order: %s", body)
	}
	if got := params[0].Get("name").String(); got != "dest" {
		t.Fatalf("params not in declaration order: %s", body)
	}
	extrinsics := gjson.GetBytes(body, "included.#(type==extrinsic)#").Array()
	if len(extrinsics) != 1 {
		t.Fatalf("recent extrinsics missing: %s", body)
	}
	// Call payloads stay out of the ride-along rows.
	if extrinsics[0].Get("attributes.params").Exists() {
		t.Fatalf("included extrinsic must not carry params: %s", extrinsics[0].Raw)
	}

	if rec := get(router, "/runtime-calls/3-balances"); rec.Code != http.StatusNotFound {
		t.Fatalf("segment-short key: status %d", rec.Code)
	}
	if rec := get(router, "/runtime-calls/3-balances-burn"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing call: status %d", rec.Code)
	}
}

func TestRuntimeEventDetail(t *testing.T) {
	store := fixtureStore()
	store.RuntimeEvents = []domain.RuntimeEvent{
		{ID: 5, SpecVersion: 3, ModuleID: "balances", EventID: "Transfer", Name: "Transfer", CountAttributes: 4},
	}
	store.RuntimeEventAttributes = []domain.RuntimeEventAttribute{
		{ID: 21, RuntimeEventID: 5, Index: 1, Type: "Did"},
		{ID: 20, RuntimeEventID: 5, Index: 0, Type: "Did"},
		{ID: 22, RuntimeEventID: 5, Index: 2, Type: "Balance"},
		{ID: 30, RuntimeEventID: 6, Index: 0, Type: "u32"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-events/3-balances-Transfer?include=recent_events")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.Bytes()
	attributes := gjson.GetBytes(body, "data.attributes.attributes").Array()
	if len(attributes) != 3 {
		t.Fatalf("own attributes only: %s", body)
	}
	if got := attributes[2].Get("type").String(); got != "Balance" {
		t.Fatalf("attributes not in index order: %s", body)
	}
	// The one concrete balances.Transfer event from the fixture chain.
	if got := gjson.GetBytes(body, "included.#(type==event).id").String(); got != "100-2" {
		t.Fatalf("recent events missing: %s", body)
	}
}

func TestRuntimeTypesListPrimitiveFilter(t *testing.T) {
	store := fixtureStore()
	store.RuntimeTypes = []domain.RuntimeType{
		{ID: 1, SpecVersion: 3, TypeString: "Balance", DecoderName: "Balance", IsPrimitive: true},
		{ID: 2, SpecVersion: 3, TypeString: "AccountInfo", DecoderName: "AccountInfo"},
	}
	router := newTestRouter(t, store)

	rec := get(router, "/runtime-types?filter[is_primitive_runtime]=1")
	body := rec.Body.Bytes()
	if got := gjson.GetBytes(body, "meta.count").Int(); got != 1 {
		t.Fatalf("meta.count = %d: %s", got, body)
	}
	if got := gjson.GetBytes(body, "data.0.attributes.type_string").String(); got != "Balance" {
		t.Fatalf("unexpected type: %q", got)
	}
}

func TestRuntimeStorageAndConstantDetail(t *testing.T) {
	store := fixtureStore()
	store.RuntimeStorageItems = []domain.RuntimeStorage{
		{ID: 7, SpecVersion: 3, ModuleID: "balances", Name: "TotalIssuance", TypeValue: "Balance", TypeHasher: "Blake2_128Concat"},
	}
	store.RuntimeConstants = []domain.RuntimeConstant{
		{ID: 9, SpecVersion: 3, ModuleID: "balances", Name: "ExistentialDeposit", Type: "Balance", Value: "1"},
	}
	router := newTestRouter(t, store)

	storageRec := get(router, "/runtime-storage/3-balances-TotalIssuance")
	if storageRec.Code != http.StatusOK {
		t.Fatalf("storage status %d: %s", storageRec.Code, storageRec.Body)
	}
	if got := gjson.GetBytes(storageRec.Body.Bytes(), "data.attributes.type_value").String(); got != "Balance" {
		t.Fatalf("unexpected storage item: %q", got)
	}

	constants := get(router, "/runtime-constants?filter[module_id]=balances")
	if got := gjson.GetBytes(constants.Body.Bytes(), "meta.count").Int(); got != 1 {
		t.Fatalf("constants count = %d", got)
	}

	constantRec := get(router, "/runtime-constants/3-balances-ExistentialDeposit")
	if got := gjson.GetBytes(constantRec.Body.Bytes(), "data.attributes.value").String(); got != "1" {
		t.Fatalf("unexpected constant: %q", got)
	}

	if rec := get(router, "/runtime-constants/3-balances"); rec.Code != http.StatusNotFound {
		t.Fatalf("segment-short key: status %d", rec.Code)
	}
}
