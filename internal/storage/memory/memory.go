// Package memory implements storage.Store over in-process slices. It
// backs handler tests and local development without a database.
package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// Store holds fixture records. It is not safe for concurrent mutation;
// populate it before serving.
type Store struct {
	Blocks                 []domain.Block
	Extrinsics             []domain.Extrinsic
	Events                 []domain.Event
	Logs                   []domain.Log
	Index                  []domain.SearchIndexEntry
	Accounts               []domain.Account
	Snapshots              []domain.AccountInfoSnapshot
	AccountIndices         []domain.AccountIndex
	Sessions               []domain.Session
	SessionValidators      []domain.SessionValidator
	SessionNominators      []domain.SessionNominator
	Runtimes               []domain.Runtime
	RuntimeModules         []domain.RuntimeModule
	RuntimeCalls           []domain.RuntimeCall
	RuntimeCallParams      []domain.RuntimeCallParam
	RuntimeEvents          []domain.RuntimeEvent
	RuntimeEventAttributes []domain.RuntimeEventAttribute
	RuntimeTypes           []domain.RuntimeType
	RuntimeStorageItems    []domain.RuntimeStorage
	RuntimeConstants       []domain.RuntimeConstant
	RuntimeErrors          []domain.RuntimeErrorMessage
	StatsRows              []domain.Stats
}

// New creates an empty store.
func New() *Store { return &Store{} }

type fieldFunc[T any] func(record T, column string) (any, bool)

func matches(got any, want any) bool {
	return fmt.Sprint(got) == fmt.Sprint(want)
}

func matchesOp(got any, op string, want any) bool {
	switch op {
	case ">":
		return less(want, got)
	case "<":
		return less(got, want)
	default:
		return matches(got, want)
	}
}

func listSlice[T any](items []T, q storage.ListQuery, field fieldFunc[T], key func(T) domain.RecordKey) ([]T, int, error) {
	if q.Keys != nil {
		if key == nil {
			return nil, 0, fmt.Errorf("key-set query on keyless records")
		}
		byKey := make(map[domain.RecordKey]T, len(items))
		for _, item := range items {
			byKey[key(item)] = item
		}
		selected := make([]T, 0, len(q.Keys))
		for _, k := range q.Keys {
			if item, ok := byKey[k]; ok {
				selected = append(selected, item)
			}
		}
		total := len(q.Keys)
		return page(selected, q.Limit, q.Offset), total, nil
	}

	filtered := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, f := range q.Filters {
			got, ok := field(item, f.Column)
			if !ok || !matchesOp(got, f.Op, f.Value) {
				continue outer
			}
		}
		for _, excl := range q.Exclusions {
			got, ok := field(item, excl.Column)
			if !ok {
				continue
			}
			for _, v := range excl.Values {
				if matches(got, v) {
					continue outer
				}
			}
		}
		filtered = append(filtered, item)
	}

	if q.OrderBy != "" {
		columns := strings.Split(q.OrderBy, ", ")
		sort.SliceStable(filtered, func(i, j int) bool {
			for _, col := range columns {
				a, _ := field(filtered[i], col)
				b, _ := field(filtered[j], col)
				if matches(a, b) {
					continue
				}
				if q.Desc {
					return less(b, a)
				}
				return less(a, b)
			}
			return false
		})
	}

	total := len(filtered)
	return page(filtered, q.Limit, q.Offset), total, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func less(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

var _ storage.Store = (*Store)(nil)
