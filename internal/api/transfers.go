package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
	"github.com/metamui-network/metascan-api/internal/transfer"
)

const transferResourceType = "balancetransfer"

// transfersList serves the canonical transfer feed. The plain feed is the
// balances.Transfer event stream, newest first; an address filter widens
// the scope through the search index to every transfer-shaped category of
// that account. List rows are always masked; only the detail endpoint
// reveals participants to themselves.
func (s *Server) transfersList() http.HandlerFunc {
	return s.cached("transfers", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		params := r.URL.Query()
		limit, offset := query.ParsePage(params)

		listQuery := storage.ListQuery{
			Filters: []storage.Filter{
				{Column: "module_id", Value: "balances"},
				{Column: "event_id", Value: "Transfer"},
			},
			OrderBy: "block_id, event_idx",
			Desc:    true,
			Limit:   limit,
			Offset:  offset,
		}
		if raw := strings.TrimSpace(params.Get(query.ParamAddress)); raw != "" {
			did, err := privacy.DecodeDID(raw)
			if err != nil {
				return nil, apierrors.InvalidFilter("address", err)
			}
			keys, err := s.store.ExpandKeys(ctx, domain.TransferIndexCategories, did, storage.TargetEvent)
			if err != nil {
				return nil, err
			}
			if keys == nil {
				keys = []domain.RecordKey{}
			}
			listQuery = storage.ListQuery{Keys: keys, Limit: limit, Offset: offset}
		}

		events, total, err := s.store.ListEvents(ctx, listQuery)
		if err != nil {
			return nil, err
		}

		resources := make([]Resource, len(events))
		for i, event := range events {
			canonical := s.normalizer.Normalize(event, identity.Anonymous)
			resources[i] = Resource{Type: transferResourceType, ID: event.Key(), Attributes: canonical}
		}
		return marshalList(resources, listMeta(params, total))
	})
}

func (s *Server) transferDetail() http.HandlerFunc {
	return s.cached("transfer", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		key, ok := query.ParseRecordKey(mux.Vars(r)["id"])
		if !ok {
			return nil, apierrors.NotFound("transfer")
		}
		event, err := s.store.GetEvent(ctx, key)
		if err != nil {
			return nil, notFoundIf(err, "transfer")
		}
		if transfer.Classify(event.ModuleID, event.EventID) == transfer.KindUnknown {
			return nil, apierrors.NotFound("transfer")
		}

		canonical := s.normalizer.Normalize(event, identity.FromContext(ctx))
		return marshalDetail(Resource{Type: transferResourceType, ID: event.Key(), Attributes: canonical}, nil)
	})
}

type historyEntry struct {
	transfer.CanonicalTransfer
	Datetime *time.Time `json:"datetime,omitempty"`
}

// historyMissingDID rejects history requests without the DID path segment.
// This is the one place where an absent identity parameter is a client
// error rather than a degrade-to-anonymous.
func (s *Server) historyMissingDID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.log, apierrors.ParameterRequired("did"))
	}
}

func (s *Server) balanceHistory() http.HandlerFunc {
	return s.cached("balance_history", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		did := strings.TrimSpace(mux.Vars(r)["did"])
		if did == "" {
			return nil, apierrors.ParameterRequired("did")
		}

		accountID := privacy.EncodeDID(did)
		events, err := s.store.TransfersByParticipant(ctx, accountID)
		if err != nil {
			return nil, err
		}

		// Only the account owner sees this history unmasked, even when
		// the caller participated in some individual transfers.
		ident := identity.FromContext(ctx)
		if ident.DID != did {
			ident = identity.Anonymous
		}

		datetimes := make(map[int64]time.Time)
		resources := make([]Resource, len(events))
		for i, event := range events {
			entry := historyEntry{CanonicalTransfer: s.normalizer.Normalize(event, ident)}
			if cached, ok := datetimes[event.BlockID]; ok {
				datetime := cached
				entry.Datetime = &datetime
			} else if block, err := s.store.GetBlock(ctx, event.BlockID); err == nil {
				datetime := block.Datetime.UTC()
				datetimes[event.BlockID] = datetime
				entry.Datetime = &datetime
			}
			resources[i] = Resource{Type: transferResourceType, ID: event.Key(), Attributes: entry}
		}
		return marshalList(resources, ListMeta{Count: len(resources), PageSize: len(resources), PageNumber: 1})
	})
}
