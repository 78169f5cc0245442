// Package query composes declarative filter definitions into store list
// queries, including the search-index indirection used for cross-entity
// filtering by account.
package query

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/metamui-network/metascan-api/internal/domain"
	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/privacy"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// ParamSearchIndex triggers search-index resolution when present.
const ParamSearchIndex = "filter[search_index]"

// ParamAddress carries the hex-encoded account identifier.
const ParamAddress = "filter[address]"

// Field maps one filter parameter onto a store predicate. Decode, when
// set, transforms the raw parameter value before use; Expand, when set,
// produces the predicate list itself and takes precedence over Column.
type Field struct {
	Param  string
	Column string
	Decode func(raw string) (any, error)
	Expand func(raw string) ([]storage.Filter, error)
}

// ConditionalExclusion excludes a value set unless the named parameter is
// supplied (events hide ExtrinsicSuccess/ExtrinsicFailed by default).
type ConditionalExclusion struct {
	Column      string
	Values      []string
	UnlessParam string
}

// Definition is the declarative filter surface of one list resource.
// Unrecognized filter parameters are ignored for forward compatibility.
type Definition struct {
	OrderBy          string
	Desc             bool
	Fields           []Field
	Exclusions       []ConditionalExclusion
	AllowSearchIndex bool
	SearchTarget     storage.IndexTarget
	SearchCategories []int
}

// Resolver builds store queries from request parameters.
type Resolver struct {
	index storage.SearchIndexStore
}

// NewResolver creates a resolver backed by the given search index.
func NewResolver(index storage.SearchIndexStore) *Resolver {
	return &Resolver{index: index}
}

// Resolve composes the list query for def from the request parameters.
// When a search-index filter is present resolution delegates entirely to
// the search index and every field-level filter is suppressed: the two
// mechanisms are mutually exclusive per request.
func (r *Resolver) Resolve(ctx context.Context, def Definition, params url.Values) (storage.ListQuery, error) {
	q := storage.ListQuery{OrderBy: def.OrderBy, Desc: def.Desc}
	q.Limit, q.Offset = ParsePage(params)

	if def.AllowSearchIndex && len(params[ParamSearchIndex]) > 0 {
		categories, err := parseCategories(params[ParamSearchIndex], def.SearchCategories)
		if err != nil {
			return q, err
		}
		accountID := ""
		if raw := strings.TrimSpace(params.Get(ParamAddress)); raw != "" {
			accountID, err = privacy.DecodeDID(raw)
			if err != nil {
				return q, apierrors.InvalidFilter("address", err)
			}
		}
		keys, err := r.index.ExpandKeys(ctx, categories, accountID, def.SearchTarget)
		if err != nil {
			return q, err
		}
		if keys == nil {
			keys = []domain.RecordKey{}
		}
		q.Keys = keys
		return q, nil
	}

	for _, field := range def.Fields {
		raw := strings.TrimSpace(params.Get(field.Param))
		if raw == "" {
			continue
		}
		if field.Expand != nil {
			filters, err := field.Expand(raw)
			if err != nil {
				return q, err
			}
			q.Filters = append(q.Filters, filters...)
			continue
		}
		var value any = raw
		if field.Decode != nil {
			decoded, err := field.Decode(raw)
			if err != nil {
				return q, apierrors.InvalidFilter(strings.TrimSuffix(strings.TrimPrefix(field.Param, "filter["), "]"), err)
			}
			value = decoded
		}
		q.Filters = append(q.Filters, storage.Filter{Column: field.Column, Value: value})
	}

	for _, excl := range def.Exclusions {
		if excl.UnlessParam != "" && strings.TrimSpace(params.Get(excl.UnlessParam)) != "" {
			continue
		}
		q.Exclusions = append(q.Exclusions, storage.SetExclusion{Column: excl.Column, Values: excl.Values})
	}

	return q, nil
}

// ParsePage extracts the JSON-API style pagination parameters.
func ParsePage(params url.Values) (limit, offset int) {
	limit = DefaultPageSize
	if raw := params.Get("page[size]"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := 1
	if raw := params.Get("page[number]"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}

// DecodeAddress is the Decode func for address-style filters: the
// hex-encoded identifier becomes the readable DID used as the equality
// value. Malformed hex is a client error.
func DecodeAddress(raw string) (any, error) {
	did, err := privacy.DecodeDID(raw)
	if err != nil {
		return nil, err
	}
	return did, nil
}

// DecodeHexAddress is the Decode func for filters matching the raw hex
// account column: the value keeps its hex form, minus the 0x prefix, but
// must at least parse as hex.
func DecodeHexAddress(raw string) (any, error) {
	stripped := privacy.StripHexPrefix(raw)
	if _, err := hex.DecodeString(stripped); err != nil {
		return nil, fmt.Errorf("decode address hex: %w", err)
	}
	return stripped, nil
}

// FlagTrue is the Decode func for presence-style boolean filters.
func FlagTrue(string) (any, error) { return true, nil }

// ParseRecordKey parses a dash-joined composite key. Malformed keys
// (wrong segment count, non-numeric segments) report ok=false so detail
// lookups surface NotFound instead of a parse error.
func ParseRecordKey(id string) (domain.RecordKey, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 {
		return domain.RecordKey{}, false
	}
	blockID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return domain.RecordKey{}, false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.RecordKey{}, false
	}
	return domain.RecordKey{BlockID: blockID, Idx: idx}, true
}

// IsNumeric reports whether s is a plain base-10 integer.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseCategories(raw []string, allowed []int) ([]int, error) {
	var categories []int
	for _, entry := range raw {
		for _, piece := range strings.Split(entry, ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			n, err := strconv.Atoi(piece)
			if err != nil {
				return nil, apierrors.InvalidFilter("search_index", err)
			}
			categories = append(categories, n)
		}
	}
	if len(categories) == 0 {
		categories = allowed
	}
	return categories, nil
}
