package api

import (
	"encoding/hex"
	"math"
	"net/http"

	"github.com/metamui-network/metascan-api/internal/privacy"
)

// Top-holder balances are reported in the highest denomination and as a
// share of the fixed total supply.
const (
	highestDenomination = 1e6
	totalSupplyUnits    = 1e9
	topHoldersLimit     = 100
)

// didAccountPrefix restricts the report to the chain's own SSID accounts;
// the id column stores the hex encoding of the identifier.
var didAccountPrefix = hex.EncodeToString([]byte("did:ssid:"))

type holderAttributes struct {
	DID             string  `json:"did"`
	BlockID         int64   `json:"block_id"`
	BalanceTotal    float64 `json:"balance_total"`
	BalanceFree     float64 `json:"balance_free"`
	BalanceReserved float64 `json:"balance_reserved"`
	Percentage      float64 `json:"percentage"`
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Server) topHolders() http.HandlerFunc {
	return s.cached("top_holders", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		holders, err := s.store.TopHolders(r.Context(), didAccountPrefix, topHoldersLimit)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(holders))
		for i, holder := range holders {
			did, err := privacy.DecodeDID(holder.AccountID)
			if err != nil {
				did = holder.AccountID
			}
			balance := round6(holder.BalanceTotal / highestDenomination)
			resources[i] = Resource{
				Type: "topholder",
				ID:   holder.AccountID,
				Attributes: holderAttributes{
					DID:             did,
					BlockID:         holder.BlockID,
					BalanceTotal:    balance,
					BalanceFree:     round6(holder.BalanceFree / highestDenomination),
					BalanceReserved: round6(holder.BalanceReserved / highestDenomination),
					Percentage:      round2(balance / totalSupplyUnits * 100),
				},
			}
		}
		return marshalList(resources, ListMeta{Count: len(resources), PageSize: topHoldersLimit, PageNumber: 1})
	})
}
