package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// listSpec ties one table to its projection, its filterable columns and,
// for block sub-records, the composite key columns.
type listSpec[T any] struct {
	table   string
	columns string
	allowed map[string]bool
	keyCols [2]string
	keyOf   func(T) domain.RecordKey
}

// listRecords runs one composed list query. Key-set queries paginate the
// key list in memory, fetch the page in a single round trip and restore
// the caller's key order, which SQL IN predicates do not preserve.
func listRecords[T any](ctx context.Context, s *Store, spec listSpec[T], q storage.ListQuery) ([]T, int, error) {
	if q.Keys != nil {
		if spec.keyOf == nil {
			return nil, 0, fmt.Errorf("table %s does not support key-set queries", spec.table)
		}
		return listByKeys(ctx, s, spec, q)
	}

	var args []any
	where, err := whereClause(q, spec.allowed, &args)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := fmt.Sprintf("SELECT count(*) FROM %s %s", spec.table, where)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", spec.table, err)
	}

	order, err := orderClause(q, spec.allowed)
	if err != nil {
		return nil, 0, err
	}
	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d",
		spec.columns, spec.table, where, order, len(args)-1, len(args))

	rows := []T{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", spec.table, err)
	}
	return rows, total, nil
}

func listByKeys[T any](ctx context.Context, s *Store, spec listSpec[T], q storage.ListQuery) ([]T, int, error) {
	total := len(q.Keys)
	page := paginateKeys(q.Keys, q.Limit, q.Offset)
	if len(page) == 0 {
		return []T{}, total, nil
	}

	var args []any
	predicate := keysPredicate(spec.keyCols[0], spec.keyCols[1], page, &args)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", spec.columns, spec.table, predicate)

	rows := []T{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s by keys: %w", spec.table, err)
	}

	byKey := make(map[domain.RecordKey]T, len(rows))
	for _, row := range rows {
		byKey[spec.keyOf(row)] = row
	}
	ordered := make([]T, 0, len(page))
	for _, key := range page {
		if row, ok := byKey[key]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, total, nil
}

// whereClause renders the filter and exclusion predicates. A filter on a
// column outside the whitelist is a programming error, not a client one.
func whereClause(q storage.ListQuery, allowed map[string]bool, args *[]any) (string, error) {
	var predicates []string
	for _, f := range q.Filters {
		if !allowed[f.Column] {
			return "", fmt.Errorf("column %q not filterable", f.Column)
		}
		op := f.Op
		if op == "" {
			op = "="
		}
		if op != "=" && op != ">" && op != "<" {
			return "", fmt.Errorf("operator %q not supported", f.Op)
		}
		*args = append(*args, f.Value)
		predicates = append(predicates, fmt.Sprintf("%s %s $%d", f.Column, op, len(*args)))
	}
	for _, excl := range q.Exclusions {
		if !allowed[excl.Column] {
			return "", fmt.Errorf("column %q not filterable", excl.Column)
		}
		placeholders := make([]string, 0, len(excl.Values))
		for _, v := range excl.Values {
			*args = append(*args, v)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(*args)))
		}
		predicates = append(predicates, fmt.Sprintf("%s NOT IN (%s)", excl.Column, strings.Join(placeholders, ", ")))
	}
	if len(predicates) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(predicates, " AND "), nil
}

func orderClause(q storage.ListQuery, allowed map[string]bool) (string, error) {
	if q.OrderBy == "" {
		return "", nil
	}
	columns := strings.Split(q.OrderBy, ", ")
	for _, col := range columns {
		if !allowed[col] {
			return "", fmt.Errorf("column %q not orderable", col)
		}
	}
	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}
	ordered := make([]string, len(columns))
	for i, col := range columns {
		ordered[i] = col + " " + direction
	}
	return "ORDER BY " + strings.Join(ordered, ", "), nil
}

func keysPredicate(blockCol, idxCol string, keys []domain.RecordKey, args *[]any) string {
	tuples := make([]string, 0, len(keys))
	for _, key := range keys {
		*args = append(*args, key.BlockID)
		blockPlaceholder := len(*args)
		*args = append(*args, key.Idx)
		tuples = append(tuples, fmt.Sprintf("($%d, $%d)", blockPlaceholder, len(*args)))
	}
	return fmt.Sprintf("(%s, %s) IN (%s)", blockCol, idxCol, strings.Join(tuples, ", "))
}

func paginateKeys(keys []domain.RecordKey, limit, offset int) []domain.RecordKey {
	if offset >= len(keys) {
		return nil
	}
	keys = keys[offset:]
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}
	return keys
}
