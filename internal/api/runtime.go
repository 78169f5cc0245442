package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// withLatestRuntime rewrites the latest-runtime sentinel into the current
// spec version. Both spellings select it: the dedicated
// filter[latestRuntime] parameter and filter[spec_version]=latestRuntime.
func (s *Server) withLatestRuntime(r *http.Request, params url.Values) (url.Values, error) {
	if params.Get("filter[latestRuntime]") == "" && params.Get("filter[spec_version]") != "latestRuntime" {
		return params, nil
	}
	latest, err := s.store.LatestRuntime(r.Context())
	if err != nil {
		return nil, notFoundIf(err, "runtime")
	}
	rewritten := url.Values{}
	for k, v := range params {
		rewritten[k] = v
	}
	rewritten.Del("filter[latestRuntime]")
	rewritten.Set("filter[spec_version]", strconv.Itoa(latest.SpecVersion))
	return rewritten, nil
}

// parseRuntimeKey splits a dash-joined runtime metadata key into its spec
// version and name segments. The segment count is fixed per resource.
func parseRuntimeKey(id string, segments int) (specVersion int, parts []string, ok bool) {
	parts = strings.SplitN(id, "-", segments)
	if len(parts) != segments || !query.IsNumeric(parts[0]) {
		return 0, nil, false
	}
	specVersion, _ = strconv.Atoi(parts[0])
	return specVersion, parts[1:], true
}

func runtimeResource(rt domain.Runtime) Resource {
	return Resource{Type: "runtime", ID: strconv.Itoa(rt.SpecVersion), Attributes: rt}
}

func (s *Server) runtimesList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "spec_version",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[spec_name]", Column: "spec_name"},
		},
	}
	return s.cached("runtimes", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		runtimes, total, err := s.store.ListRuntimes(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(runtimes))
		for i, runtime := range runtimes {
			resources[i] = runtimeResource(runtime)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

func (s *Server) runtimeDetail() http.HandlerFunc {
	return s.cached("runtime", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]
		if !query.IsNumeric(id) {
			return nil, apierrors.NotFound("runtime")
		}
		specVersion, _ := strconv.Atoi(id)
		runtime, err := s.store.GetRuntime(ctx, specVersion)
		if err != nil {
			return nil, notFoundIf(err, "runtime")
		}

		includes := parseIncludes(r.URL.Query())
		var included []Resource
		specFilter := storage.Filter{Column: "spec_version", Value: runtime.SpecVersion}

		if includes["modules"] {
			modules, _, err := s.store.ListRuntimeModules(ctx, storage.ListQuery{
				Filters: []storage.Filter{specFilter},
				OrderBy: "module_id",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, module := range modules {
				included = append(included, runtimeModuleResource(module))
			}
		}
		if includes["types"] {
			types, _, err := s.store.ListRuntimeTypes(ctx, storage.ListQuery{
				Filters: []storage.Filter{specFilter},
				OrderBy: "type_string",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, t := range types {
				included = append(included, Resource{
					Type:       "runtimetype",
					ID:         fmt.Sprintf("%d-%s", t.SpecVersion, t.TypeString),
					Attributes: t,
				})
			}
		}

		return marshalDetail(runtimeResource(runtime), included)
	})
}

func runtimeModuleResource(m domain.RuntimeModule) Resource {
	return Resource{
		Type:       "runtimemodule",
		ID:         fmt.Sprintf("%d-%s", m.SpecVersion, m.ModuleID),
		Attributes: m,
	}
}

func (s *Server) runtimeModulesList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "module_id",
		Fields: []query.Field{
			{Param: "filter[spec_version]", Column: "spec_version"},
		},
	}
	return s.cached("runtime_modules", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestRuntime(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		modules, total, err := s.store.ListRuntimeModules(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(modules))
		for i, module := range modules {
			resources[i] = runtimeModuleResource(module)
		}
		return marshalList(resources, listMeta(params, total))
	})
}

func (s *Server) runtimeModuleDetail() http.HandlerFunc {
	return s.cached("runtime_module", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		specVersion, parts, ok := parseRuntimeKey(mux.Vars(r)["id"], 2)
		if !ok {
			return nil, apierrors.NotFound("runtime module")
		}
		module, err := s.store.GetRuntimeModule(ctx, specVersion, parts[0])
		if err != nil {
			return nil, notFoundIf(err, "runtime module")
		}

		filters := []storage.Filter{
			{Column: "spec_version", Value: module.SpecVersion},
			{Column: "module_id", Value: module.ModuleID},
		}
		var included []Resource
		includes := parseIncludes(r.URL.Query())

		if includes["calls"] {
			calls, _, err := s.store.ListRuntimeCalls(ctx, storage.ListQuery{Filters: filters, OrderBy: "call_id", Limit: includeLimit})
			if err != nil {
				return nil, err
			}
			for _, call := range calls {
				included = append(included, runtimeCallResource(call))
			}
		}
		if includes["events"] {
			events, _, err := s.store.ListRuntimeEvents(ctx, storage.ListQuery{Filters: filters, OrderBy: "event_id", Limit: includeLimit})
			if err != nil {
				return nil, err
			}
			for _, event := range events {
				included = append(included, runtimeEventResource(event))
			}
		}
		if includes["storage"] {
			items, _, err := s.store.ListRuntimeStorage(ctx, storage.ListQuery{Filters: filters, OrderBy: "name", Limit: includeLimit})
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				included = append(included, runtimeStorageResource(item))
			}
		}
		if includes["constants"] {
			constants, _, err := s.store.ListRuntimeConstants(ctx, storage.ListQuery{Filters: filters, OrderBy: "name", Limit: includeLimit})
			if err != nil {
				return nil, err
			}
			for _, constant := range constants {
				included = append(included, runtimeConstantResource(constant))
			}
		}
		if includes["errors"] {
			messages, err := s.store.ListRuntimeErrors(ctx, module.SpecVersion, module.ModuleID)
			if err != nil {
				return nil, err
			}
			for _, message := range messages {
				included = append(included, Resource{
					Type:       "runtimeerrormessage",
					ID:         fmt.Sprintf("%d-%s-%d", message.SpecVersion, message.ModuleID, message.Index),
					Attributes: message,
				})
			}
		}

		return marshalDetail(runtimeModuleResource(module), included)
	})
}

func runtimeCallResource(c domain.RuntimeCall) Resource {
	return Resource{
		Type:       "runtimecall",
		ID:         fmt.Sprintf("%d-%s-%s", c.SpecVersion, c.ModuleID, c.CallID),
		Attributes: c,
	}
}

func (s *Server) runtimeCallsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "module_id, call_id",
		Fields: []query.Field{
			{Param: "filter[spec_version]", Column: "spec_version"},
			{Param: "filter[module_id]", Column: "module_id"},
		},
	}
	return s.cached("runtime_calls", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestRuntime(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		calls, total, err := s.store.ListRuntimeCalls(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(calls))
		for i, call := range calls {
			resources[i] = runtimeCallResource(call)
		}
		return marshalList(resources, listMeta(params, total))
	})
}

type runtimeCallDetail struct {
	domain.RuntimeCall
	Params []domain.RuntimeCallParam `json:"params"`
}

func (s *Server) runtimeCallDetail() http.HandlerFunc {
	return s.cached("runtime_call", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		specVersion, parts, ok := parseRuntimeKey(mux.Vars(r)["id"], 3)
		if !ok {
			return nil, apierrors.NotFound("runtime call")
		}
		call, err := s.store.GetRuntimeCall(ctx, specVersion, parts[0], parts[1])
		if err != nil {
			return nil, notFoundIf(err, "runtime call")
		}
		params, err := s.store.ListRuntimeCallParams(ctx, call.ID)
		if err != nil {
			return nil, err
		}

		var included []Resource
		if parseIncludes(r.URL.Query())["recent_extrinsics"] {
			extrinsics, _, err := s.store.ListExtrinsics(ctx, storage.ListQuery{
				Filters: []storage.Filter{
					{Column: "module_id", Value: call.ModuleID},
					{Column: "call_id", Value: call.CallID},
				},
				OrderBy: "block_id, extrinsic_idx",
				Desc:    true,
				Limit:   recentExtrinsicsLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, extrinsic := range extrinsics {
				extrinsic.Params = nil
				included = append(included, extrinsicResource(extrinsic))
			}
		}

		detail := runtimeCallDetail{RuntimeCall: call, Params: params}
		resource := runtimeCallResource(call)
		resource.Attributes = detail
		return marshalDetail(resource, included)
	})
}

func runtimeEventResource(e domain.RuntimeEvent) Resource {
	return Resource{
		Type:       "runtimeevent",
		ID:         fmt.Sprintf("%d-%s-%s", e.SpecVersion, e.ModuleID, e.EventID),
		Attributes: e,
	}
}

func (s *Server) runtimeEventsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "module_id, event_id",
		Fields: []query.Field{
			{Param: "filter[spec_version]", Column: "spec_version"},
			{Param: "filter[module_id]", Column: "module_id"},
		},
	}
	return s.cached("runtime_events", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestRuntime(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		events, total, err := s.store.ListRuntimeEvents(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(events))
		for i, event := range events {
			resources[i] = runtimeEventResource(event)
		}
		return marshalList(resources, listMeta(params, total))
	})
}

type runtimeEventDetail struct {
	domain.RuntimeEvent
	Attributes []domain.RuntimeEventAttribute `json:"attributes"`
}

func (s *Server) runtimeEventDetail() http.HandlerFunc {
	return s.cached("runtime_event", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		specVersion, parts, ok := parseRuntimeKey(mux.Vars(r)["id"], 3)
		if !ok {
			return nil, apierrors.NotFound("runtime event")
		}
		event, err := s.store.GetRuntimeEvent(ctx, specVersion, parts[0], parts[1])
		if err != nil {
			return nil, notFoundIf(err, "runtime event")
		}
		attributes, err := s.store.ListRuntimeEventAttributes(ctx, event.ID)
		if err != nil {
			return nil, err
		}

		var included []Resource
		if parseIncludes(r.URL.Query())["recent_events"] {
			recent, _, err := s.store.ListEvents(ctx, storage.ListQuery{
				Filters: []storage.Filter{
					{Column: "module_id", Value: event.ModuleID},
					{Column: "event_id", Value: event.EventID},
				},
				OrderBy: "block_id, event_idx",
				Desc:    true,
				Limit:   recentExtrinsicsLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, e := range recent {
				included = append(included, eventResource(e))
			}
		}

		detail := runtimeEventDetail{RuntimeEvent: event, Attributes: attributes}
		resource := runtimeEventResource(event)
		resource.Attributes = detail
		return marshalDetail(resource, included)
	})
}

func (s *Server) runtimeTypesList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "type_string",
		Fields: []query.Field{
			{Param: "filter[spec_version]", Column: "spec_version"},
			{Param: "filter[is_primitive_runtime]", Column: "is_primitive_runtime", Decode: query.FlagTrue},
		},
	}
	return s.cached("runtime_types", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestRuntime(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		types, total, err := s.store.ListRuntimeTypes(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(types))
		for i, t := range types {
			resources[i] = Resource{
				Type:       "runtimetype",
				ID:         fmt.Sprintf("%d-%s", t.SpecVersion, t.TypeString),
				Attributes: t,
			}
		}
		return marshalList(resources, listMeta(params, total))
	})
}

func runtimeStorageResource(item domain.RuntimeStorage) Resource {
	return Resource{
		Type:       "runtimestorage",
		ID:         fmt.Sprintf("%d-%s-%s", item.SpecVersion, item.ModuleID, item.Name),
		Attributes: item,
	}
}

func (s *Server) runtimeStorageDetail() http.HandlerFunc {
	return s.cached("runtime_storage", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		specVersion, parts, ok := parseRuntimeKey(mux.Vars(r)["id"], 3)
		if !ok {
			return nil, apierrors.NotFound("runtime storage")
		}
		item, err := s.store.GetRuntimeStorage(r.Context(), specVersion, parts[0], parts[1])
		if err != nil {
			return nil, notFoundIf(err, "runtime storage")
		}
		return marshalDetail(runtimeStorageResource(item), nil)
	})
}

func runtimeConstantResource(c domain.RuntimeConstant) Resource {
	return Resource{
		Type:       "runtimeconstant",
		ID:         fmt.Sprintf("%d-%s-%s", c.SpecVersion, c.ModuleID, c.Name),
		Attributes: c,
	}
}

func (s *Server) runtimeConstantsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "module_id, name",
		Fields: []query.Field{
			{Param: "filter[spec_version]", Column: "spec_version"},
			{Param: "filter[module_id]", Column: "module_id"},
		},
	}
	return s.cached("runtime_constants", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestRuntime(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		constants, total, err := s.store.ListRuntimeConstants(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(constants))
		for i, constant := range constants {
			resources[i] = runtimeConstantResource(constant)
		}
		return marshalList(resources, listMeta(params, total))
	})
}

func (s *Server) runtimeConstantDetail() http.HandlerFunc {
	return s.cached("runtime_constant", s.ttl.RuntimeTTL, func(r *http.Request) ([]byte, error) {
		specVersion, parts, ok := parseRuntimeKey(mux.Vars(r)["id"], 3)
		if !ok {
			return nil, apierrors.NotFound("runtime constant")
		}
		constant, err := s.store.GetRuntimeConstant(r.Context(), specVersion, parts[0], parts[1])
		if err != nil {
			return nil, notFoundIf(err, "runtime constant")
		}
		return marshalDetail(runtimeConstantResource(constant), nil)
	})
}
