package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/chainrpc"
	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/query"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// balanceHistoryDepth is the snapshot window of the account detail chart.
const balanceHistoryDepth = 1000

const recentExtrinsicsLimit = 10

func accountResource(a domain.Account) Resource {
	return Resource{Type: "account", ID: a.ID, Attributes: a}
}

var accountRoleFilters = []string{
	"is_validator", "is_nominator", "is_council_member", "is_registrar",
	"is_sudo", "is_tech_comm_member", "is_treasury",
	"was_validator", "was_nominator", "was_council_member", "was_registrar",
	"was_sudo", "was_tech_comm_member", "has_subidentity",
}

func accountsDefinition() query.Definition {
	def := query.Definition{OrderBy: "balance_total", Desc: true}
	for _, role := range accountRoleFilters {
		def.Fields = append(def.Fields, query.Field{
			Param:  "filter[" + role + "]",
			Column: role,
			Decode: query.FlagTrue,
		})
	}
	def.Fields = append(def.Fields,
		query.Field{Param: "filter[has_identity]", Expand: func(string) ([]storage.Filter, error) {
			return []storage.Filter{
				{Column: "has_identity", Value: true},
				{Column: "identity_judgement_bad", Value: 0},
			}, nil
		}},
		query.Field{Param: "filter[identity_judgement_good]", Expand: func(string) ([]storage.Filter, error) {
			return []storage.Filter{
				{Column: "identity_judgement_good", Op: ">", Value: 0},
				{Column: "identity_judgement_bad", Value: 0},
			}, nil
		}},
		query.Field{Param: "filter[blacklist]", Expand: func(string) ([]storage.Filter, error) {
			return []storage.Filter{
				{Column: "identity_judgement_bad", Op: ">", Value: 0},
			}, nil
		}},
	)
	return def
}

func (s *Server) accountsList() http.HandlerFunc {
	def := accountsDefinition()
	return s.cached("accounts", s.ttl.DefaultTTL, func(r *http.Request) ([]byte, error) {
		q, err := s.resolver.Resolve(r.Context(), def, r.URL.Query())
		if err != nil {
			return nil, err
		}
		accounts, total, err := s.store.ListAccounts(r.Context(), q)
		if err != nil {
			return nil, err
		}
		resources := make([]Resource, len(accounts))
		for i, account := range accounts {
			resources[i] = accountResource(account)
		}
		return marshalList(resources, listMeta(r.URL.Query(), total))
	})
}

type accountDetail struct {
	domain.Account
	LiveBalances   *chainrpc.Balances           `json:"live_balances,omitempty"`
	BalanceHistory []domain.AccountInfoSnapshot `json:"balance_history,omitempty"`
}

func (s *Server) accountDetail() http.HandlerFunc {
	return s.cached("account", s.ttl.AccountDetailTTL, func(r *http.Request) ([]byte, error) {
		ctx := r.Context()
		address := mux.Vars(r)["address"]

		account, err := s.store.GetAccountByAddress(ctx, address)
		if err == storage.ErrNotFound {
			// A numeric path segment is a claimed index address.
			index, idxErr := s.store.GetAccountIndex(ctx, address)
			if idxErr != nil {
				return nil, notFoundIf(err, "account")
			}
			account, err = s.accountByID(ctx, index.AccountID)
		}
		if err != nil {
			return nil, notFoundIf(err, "account")
		}

		detail := accountDetail{Account: account}

		history, err := s.store.ListBalanceHistory(ctx, account.ID, balanceHistoryDepth)
		if err != nil {
			return nil, err
		}
		// The chart reads left to right; the store returns newest first.
		for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
			history[i], history[j] = history[j], history[i]
		}
		detail.BalanceHistory = history

		if s.chain != nil {
			if balances, err := s.chain.AccountBalances(ctx, account.ID); err == nil {
				detail.LiveBalances = &balances
			}
		}

		var included []Resource
		extrinsics, _, err := s.store.ListExtrinsics(ctx, storage.ListQuery{
			Filters: []storage.Filter{{Column: "address", Value: privacy.StripHexPrefix(account.ID)}},
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

		indices, err := s.store.ListAccountIndices(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		for _, index := range indices {
			included = append(included, Resource{
				Type:       "accountindex",
				ID:         strconv.FormatInt(index.ID, 10),
				Attributes: index,
			})
		}

		return marshalDetail(Resource{Type: "account", ID: account.ID, Attributes: detail}, included)
	})
}

func (s *Server) accountByID(ctx context.Context, accountID string) (domain.Account, error) {
	accounts, _, err := s.store.ListAccounts(ctx, storage.ListQuery{
		Filters: []storage.Filter{{Column: "id", Value: accountID}},
		Limit:   1,
	})
	if err != nil {
		return domain.Account{}, err
	}
	if len(accounts) == 0 {
		return domain.Account{}, storage.ErrNotFound
	}
	return accounts[0], nil
}
