package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/query"
)

func logResource(l domain.Log) Resource {
	return Resource{
		Type:       "log",
		ID:         fmt.Sprintf("%d-%d", l.BlockID, l.LogIdx),
		Attributes: l,
	}
}

func (s *Server) logsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "block_id, log_idx",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[block_id]", Column: "block_id"},
			{Param: "filter[type_id]", Column: "type_id"},
		},
	}
	return s.cached("logs", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		logs, total, err := s.store.ListLogs(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(logs))
		for i, log := range logs {
			resources[i] = logResource(log)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

func (s *Server) logDetail() http.HandlerFunc {
	return s.cached("log", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		key, ok := query.ParseRecordKey(mux.Vars(r)["id"])
		if !ok {
			return nil, apierrors.NotFound("log")
		}
		log, err := s.store.GetLog(r.Context(), key)
		if err != nil {
			return nil, notFoundIf(err, "log")
		}
		return marshalDetail(logResource(log), nil)
	})
}
