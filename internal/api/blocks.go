package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// includeLimit bounds side-loaded relations of a detail response. Block
// payloads are bounded by block size, so one page always suffices.
const includeLimit = 1000

func blockResource(b domain.Block) Resource {
	return Resource{Type: "block", ID: strconv.FormatInt(b.ID, 10), Attributes: b}
}

func (s *Server) blocksList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "id",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[spec_version_id]", Column: "spec_version_id"},
			{Param: "filter[session_id]", Column: "session_id"},
		},
	}
	return s.cached("blocks", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		blocks, total, err := s.store.ListBlocks(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(blocks))
		for i, block := range blocks {
			resources[i] = blockResource(block)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

func (s *Server) blockDetail() http.HandlerFunc {
	return s.cached("block", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]

		var block domain.Block
		var err error
		switch {
		case query.IsNumeric(id):
			var blockID int64
			blockID, _ = strconv.ParseInt(id, 10, 64)
			block, err = s.store.GetBlock(ctx, blockID)
		case strings.HasPrefix(id, "0x"):
			block, err = s.store.GetBlockByHash(ctx, id)
		default:
			return nil, apierrors.NotFound("block")
		}
		if err != nil {
			return nil, notFoundIf(err, "block")
		}

		includes := parseIncludes(r.URL.Query())
		var included []Resource
		blockFilter := storage.Filter{Column: "block_id", Value: block.ID}

		if includes["extrinsics"] || includes["transactions"] || includes["inherents"] {
			extrinsics, _, err := s.store.ListExtrinsics(ctx, storage.ListQuery{
				Filters: []storage.Filter{blockFilter},
				OrderBy: "extrinsic_idx",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, extrinsic := range extrinsics {
				switch {
				case includes["extrinsics"],
					includes["transactions"] && extrinsic.Signed == 1,
					includes["inherents"] && extrinsic.Signed == 0:
					extrinsic.Params = scrubParams(extrinsic.Key(), extrinsic.Params)
					included = append(included, Resource{Type: "extrinsic", ID: extrinsic.Key(), Attributes: extrinsic})
				}
			}
		}
		if includes["events"] {
			events, _, err := s.store.ListEvents(ctx, storage.ListQuery{
				Filters: []storage.Filter{blockFilter},
				OrderBy: "event_idx",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, event := range events {
				included = append(included, Resource{Type: "event", ID: event.Key(), Attributes: event})
			}
		}
		if includes["logs"] {
			logs, _, err := s.store.ListLogs(ctx, storage.ListQuery{
				Filters: []storage.Filter{blockFilter},
				OrderBy: "log_idx",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, log := range logs {
				included = append(included, logResource(log))
			}
		}

		return marshalDetail(blockResource(block), included)
	})
}
