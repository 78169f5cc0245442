package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

func extrinsicResource(e domain.Extrinsic) Resource {
	return Resource{Type: "extrinsic", ID: e.Key(), Attributes: e}
}

func (s *Server) extrinsicsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "block_id, extrinsic_idx",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[signed]", Column: "signed"},
			{Param: "filter[module_id]", Column: "module_id"},
			{Param: "filter[call_id]", Column: "call_id"},
			{Param: "filter[success]", Column: "success"},
			// data_extrinsic.address stores the 0x-stripped hex DID, so
			// the filter keeps hex form rather than decoding to the
			// readable DID.
			{Param: "filter[address]", Column: "address", Decode: query.DecodeHexAddress},
		},
		AllowSearchIndex: true,
		SearchTarget:     storage.TargetExtrinsic,
		SearchCategories: []int{domain.IndexExtrinsicSigned},
	}
	return s.cached("extrinsics", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		extrinsics, total, err := s.store.ListExtrinsics(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(extrinsics))
		for i, extrinsic := range extrinsics {
			// Large call payloads stay off the list view unless the
			// search index narrowed the result to one account's activity.
			if q.Keys == nil {
				extrinsic.Params = nil
			} else {
				extrinsic.Params = scrubParams(extrinsic.Key(), extrinsic.Params)
			}
			resources[i] = extrinsicResource(extrinsic)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

// extrinsicDetail extends the raw record with the context a block explorer
// shows next to it.
type extrinsicDetail struct {
	domain.Extrinsic
	Datetime        *time.Time                  `json:"datetime,omitempty"`
	Documentation   string                      `json:"documentation,omitempty"`
	ErrorMessage    *domain.RuntimeErrorMessage `json:"error_message,omitempty"`
	FormattedParams []formattedParam            `json:"formatted_params,omitempty"`
}

func (s *Server) extrinsicDetail() http.HandlerFunc {
	return s.cached("extrinsic", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		var extrinsic domain.Extrinsic
		var err error
		if strings.HasPrefix(id, "0x") {
			extrinsic, err = s.store.GetExtrinsicByHash(ctx, id)
		} else {
			key, ok := query.ParseRecordKey(id)
			if !ok {
				return nil, apierrors.NotFound("extrinsic")
			}
			extrinsic, err = s.store.GetExtrinsic(ctx, key)
		}
		if err != nil {
			return nil, notFoundIf(err, "extrinsic")
		}

		ident := identity.FromContext(ctx)
		detail := extrinsicDetail{Extrinsic: extrinsic}
		detail.Params = scrubParams(extrinsic.Key(), extrinsic.Params)

		if block, err := s.store.GetBlock(ctx, extrinsic.BlockID); err == nil {
			datetime := block.Datetime.UTC()
			detail.Datetime = &datetime
		}
		if call, err := s.store.GetRuntimeCall(ctx, extrinsic.SpecVersionID, extrinsic.ModuleID, extrinsic.CallID); err == nil {
			detail.Documentation = call.Documentation
		}
		if extrinsic.ModuleID == "balances" && (extrinsic.CallID == "transfer" || extrinsic.CallID == "transfer_with_memo") {
			detail.FormattedParams = formatTransferParams(extrinsic.Params, s.policy, ident)
		}

		events, _, err := s.store.ListEvents(ctx, storage.ListQuery{
			Filters: []storage.Filter{
				{Column: "block_id", Value: extrinsic.BlockID},
				{Column: "extrinsic_idx", Value: extrinsic.ExtrinsicIdx},
			},
			OrderBy: "event_idx",
			Limit:   includeLimit,
		})
		if err != nil {
			return nil, err
		}

		if extrinsic.Success == 0 {
			detail.ErrorMessage = s.lookupDispatchError(ctx, extrinsic, events)
		}

		included := make([]Resource, len(events))
		for i, event := range events {
			included[i] = Resource{Type: "event", ID: event.Key(), Attributes: event}
		}
		if extrinsic.Signed == 1 && extrinsic.Address != "" {
			if signer, err := s.accountByID(ctx, extrinsic.Address); err == nil {
				included = append(included, accountResource(signer))
			}
		}
		return marshalDetail(Resource{Type: "extrinsic", ID: extrinsic.Key(), Attributes: detail}, included)
	})
}

// lookupDispatchError resolves the failure reason of an extrinsic from its
// ExtrinsicFailed event. Module errors resolve against the runtime error
// table under the extrinsic's spec version; the well-known dispatch errors
// carry no module reference.
func (s *Server) lookupDispatchError(ctx context.Context, extrinsic domain.Extrinsic, events []domain.Event) *domain.RuntimeErrorMessage {
	for _, event := range events {
		if event.ModuleID != "system" || event.EventID != "ExtrinsicFailed" {
			continue
		}
		if len(event.Attributes) == 0 {
			return nil
		}
		dispatch := gjson.ParseBytes(event.Attributes[0].Value)
		if module := dispatch.Get("Module"); module.Exists() {
			message, err := s.store.GetRuntimeErrorMessage(ctx,
				int(module.Get("index").Int()), int(module.Get("error").Int()), extrinsic.SpecVersionID)
			if err != nil {
				return nil
			}
			return &message
		}
		if name := dispatch.String(); name == "BadOrigin" || name == "CannotLookup" {
			return &domain.RuntimeErrorMessage{Name: name, SpecVersion: extrinsic.SpecVersionID}
		}
		return nil
	}
	return nil
}
