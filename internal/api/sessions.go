package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

func sessionResource(s domain.Session) Resource {
	return Resource{Type: "session", ID: strconv.FormatInt(s.ID, 10), Attributes: s}
}

func (s *Server) sessionsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "id",
		Desc:    true,
		Fields: []query.Field{
			{Param: "filter[era]", Column: "era"},
		},
	}
	return s.cached("sessions", s.ttl.SessionTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		sessions, total, err := s.store.ListSessions(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(sessions))
		for i, session := range sessions {
			resources[i] = sessionResource(session)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

func (s *Server) sessionDetail() http.HandlerFunc {
	return s.cached("session", s.ttl.SessionTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		id := mux.Vars(r)["id"]
		if !query.IsNumeric(id) {
			return nil, apierrors.NotFound("session")
		}
		sessionID, _ := strconv.ParseInt(id, 10, 64)
		session, err := s.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, notFoundIf(err, "session")
		}

		includes := parseIncludes(r.URL.Query())
		var included []Resource
		if includes["blocks"] {
			blocks, _, err := s.store.ListBlocks(ctx, storage.ListQuery{
				Filters: []storage.Filter{{Column: "session_id", Value: session.ID}},
				OrderBy: "id",
				Desc:    true,
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, block := range blocks {
				included = append(included, blockResource(block))
			}
		}
		if includes["validators"] {
			validators, _, err := s.store.ListSessionValidators(ctx, storage.ListQuery{
				Filters: []storage.Filter{{Column: "session_id", Value: session.ID}},
				OrderBy: "rank_validator",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, validator := range validators {
				included = append(included, sessionValidatorResource(validator))
			}
		}

		return marshalDetail(sessionResource(session), included)
	})
}

func sessionValidatorResource(v domain.SessionValidator) Resource {
	return Resource{
		Type:       "sessionvalidator",
		ID:         fmt.Sprintf("%d-%d", v.SessionID, v.RankValidator),
		Attributes: v,
	}
}

// withLatestSession rewrites the latest-session sentinel into a concrete
// session id predicate. Both spellings select it: the dedicated
// filter[latestSession] parameter and filter[session_id]=latestSession.
func (s *Server) withLatestSession(r *http.Request, params url.Values) (url.Values, error) {
	if params.Get("filter[latestSession]") == "" && params.Get("filter[session_id]") != "latestSession" {
		return params, nil
	}
	latest, err := s.store.LatestSession(r.Context())
	if err != nil {
		return nil, notFoundIf(err, "session")
	}
	rewritten := url.Values{}
	for k, v := range params {
		rewritten[k] = v
	}
	rewritten.Del("filter[latestSession]")
	rewritten.Set("filter[session_id]", strconv.FormatInt(latest.ID, 10))
	return rewritten, nil
}

func (s *Server) sessionValidatorsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "session_id, rank_validator",
		Desc:    false,
		Fields: []query.Field{
			{Param: "filter[session_id]", Column: "session_id"},
			{Param: "filter[validator_stash]", Column: "validator_stash"},
		},
	}
	return s.cached("session_validators", s.ttl.SessionTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestSession(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		validators, total, err := s.store.ListSessionValidators(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(validators))
		for i, validator := range validators {
			resources[i] = sessionValidatorResource(validator)
		}
		return marshalList(resources, listMeta(params, total))
	})
}

func (s *Server) sessionValidatorDetail() http.HandlerFunc {
	return s.cached("session_validator", s.ttl.SessionTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		key, ok := query.ParseRecordKey(mux.Vars(r)["id"])
		if !ok {
			return nil, apierrors.NotFound("session validator")
		}
		validator, err := s.store.GetSessionValidator(ctx, key.BlockID, key.Idx)
		if err != nil {
			return nil, notFoundIf(err, "session validator")
		}

		includes := parseIncludes(r.URL.Query())
		var included []Resource
		if includes["accounts"] {
			for _, address := range []string{validator.ValidatorStash, validator.ValidatorController} {
				if address == "" {
					continue
				}
				account, err := s.store.GetAccountByAddress(ctx, address)
				if err != nil {
					continue
				}
				included = append(included, accountResource(account))
			}
		}
		if includes["nominators"] {
			nominators, _, err := s.store.ListSessionNominators(ctx, storage.ListQuery{
				Filters: []storage.Filter{
					{Column: "session_id", Value: validator.SessionID},
					{Column: "rank_validator", Value: validator.RankValidator},
				},
				OrderBy: "rank_nominator",
				Limit:   includeLimit,
			})
			if err != nil {
				return nil, err
			}
			for _, nominator := range nominators {
				included = append(included, sessionNominatorResource(nominator))
			}
		}
		return marshalDetail(sessionValidatorResource(validator), included)
	})
}

func sessionNominatorResource(n domain.SessionNominator) Resource {
	return Resource{
		Type:       "sessionnominator",
		ID:         fmt.Sprintf("%d-%d-%d", n.SessionID, n.RankValidator, n.RankNominator),
		Attributes: n,
	}
}

func (s *Server) sessionNominatorsList() http.HandlerFunc {
	def := query.Definition{
		OrderBy: "session_id, rank_validator, rank_nominator",
		Desc:    false,
		Fields: []query.Field{
			{Param: "filter[session_id]", Column: "session_id"},
			{Param: "filter[rank_validator]", Column: "rank_validator"},
			{Param: "filter[nominator_stash]", Column: "nominator_stash"},
		},
	}
	return s.cached("session_nominators", s.ttl.SessionTTL, func(r *http.Request) ([]byte, error) {
		params, err := s.withLatestSession(r, r.URL.Query())
		if err != nil {
			return nil, err
		}
		q, err := s.resolver.Resolve(r.Context(), def, params)
		if err != nil {
			return nil, err
		}
		nominators, total, err := s.store.ListSessionNominators(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(nominators))
		for i, nominator := range nominators {
			resources[i] = sessionNominatorResource(nominator)
		}
		return marshalList(resources, listMeta(params, total))
	})
}
