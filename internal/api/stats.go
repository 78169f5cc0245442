package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// notAvailable is the sentinel served when the indexer has not populated
// the stats row yet. The response keeps the populated shape so clients
// never branch on structure.
const notAvailable = "N/A"

type statsAttributes struct {
	TokenName          any `json:"token_name"`
	Symbol             any `json:"symbol"`
	Site               any `json:"site"`
	Decimals           any `json:"decimals"`
	CurrentCirculation any `json:"current_circulation"`
	TotalSupply        any `json:"total_supply"`
}

func populatedStats(stats domain.Stats) statsAttributes {
	return statsAttributes{
		TokenName:          stats.TokenName,
		Symbol:             stats.Symbol,
		Site:               stats.Site,
		Decimals:           stats.Decimals,
		CurrentCirculation: stats.CurrentCirculation,
		TotalSupply:        stats.TotalSupply,
	}
}

func sentinelStats() statsAttributes {
	return statsAttributes{
		TokenName:          notAvailable,
		Symbol:             notAvailable,
		Site:               notAvailable,
		Decimals:           notAvailable,
		CurrentCirculation: notAvailable,
		TotalSupply:        notAvailable,
	}
}

func (s *Server) statsDetail() http.HandlerFunc {
	return s.cached("stats", s.ttl.StatsTTL, func(r *http.Request) ([]byte, error) {
		currency := mux.Vars(r)["currency"]
		attributes := sentinelStats()
		if stats, err := s.store.GetStats(r.Context(), currency); err == nil {
			attributes = populatedStats(stats)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return marshalDetail(Resource{Type: "stats", ID: currency, Attributes: attributes}, nil)
	})
}

type networkStatsAttributes struct {
	statsAttributes
	BestBlock any `json:"best_block"`
}

func (s *Server) networkStats() http.HandlerFunc {
	return s.cached("networkstats", s.ttl.NetworkStatsTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		currency := mux.Vars(r)["currency"]

		attributes := networkStatsAttributes{statsAttributes: sentinelStats(), BestBlock: notAvailable}
		if stats, err := s.store.GetStats(ctx, currency); err == nil {
			attributes.statsAttributes = populatedStats(stats)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}

		blocks, _, err := s.store.ListBlocks(ctx, storage.ListQuery{OrderBy: "id", Desc: true, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(blocks) > 0 {
			attributes.BestBlock = blocks[0].ID
		}

		return marshalDetail(Resource{Type: "networkstats", ID: currency, Attributes: attributes}, nil)
	})
}

// statsField serves a single scalar off the stats row for lightweight
// supply trackers.
func (s *Server) statsField() http.HandlerFunc {
	return s.cached("stats_field", s.ttl.NetworkStatsTTL, func(r *http.Request) ([]byte, error) {
		vars := mux.Vars(r)
		stats, err := s.store.GetStats(r.Context(), vars["currency"])
		if err != nil {
			return nil, notFoundIf(err, "Requested data")
		}
		switch vars["field"] {
		case "total_supply":
			return json.Marshal(stats.TotalSupply)
		case "current_circulation":
			return json.Marshal(stats.CurrentCirculation)
		default:
			return nil, apierrors.NotFound("Requested data")
		}
	})
}
