package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

func eventResource(e domain.Event) Resource {
	return Resource{Type: "event", ID: e.Key(), Attributes: e}
}

func (s *Server) eventsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "block_id, event_idx",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[module_id]", Column: "module_id"},
			{Param: "filter[event_id]", Column: "event_id"},
			{Param: "filter[block_id]", Column: "block_id"},
		},
		Exclusions: []query.ConditionalExclusion{
			// Success/failure bookkeeping events drown out everything
			// else, so they only appear when asked for by name.
			{Column: "event_id", Values: []string{"ExtrinsicSuccess", "ExtrinsicFailed"}, UnlessParam: "filter[event_id]"},
		},
		AllowSearchIndex: true,
		SearchTarget:     storage.TargetEvent,
		SearchCategories: domain.TransferIndexCategories,
	}
	return s.cached("events", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		events, total, err := s.store.ListEvents(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(events))
		for i, event := range events {
			resources[i] = eventResource(event)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

type eventDetail struct {
	domain.Event
	Documentation string `json:"documentation,omitempty"`
}

func (s *Server) eventDetail() http.HandlerFunc {
	return s.cached("event", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		key, ok := query.ParseRecordKey(mux.Vars(r)["id"])
		if !ok {
			return nil, apierrors.NotFound("event")
		}
		event, err := s.store.GetEvent(ctx, key)
		if err != nil {
			return nil, notFoundIf(err, "event")
		}

		ident := identity.FromContext(ctx)
		detail := eventDetail{Event: event}
		detail.Attributes = maskEventAttributes(event.Attributes, s.policy, ident)

		if runtimeEvent, err := s.store.GetRuntimeEvent(ctx, event.SpecVersionID, event.ModuleID, event.EventID); err == nil {
			detail.Documentation = runtimeEvent.Documentation
		}

		return marshalDetail(Resource{Type: "event", ID: event.Key(), Attributes: detail}, nil)
	})
}
