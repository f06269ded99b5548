package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests. It honors the same upsert
// semantics as the relational backend and can be told to fail on demand to
// simulate an unreachable remote.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row

	// Err, when set, fails every operation with a network-kind error.
	Err error
	// UpsertHook, when set, runs before each upsert; a returned error fails
	// that upsert only. Lets tests fail individual queue entries.
	UpsertHook func(table string, row Row) error
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row)}
}

// Rows returns a copy of the rows currently held for table.
func (m *Memory) Rows(table string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]Row, len(m.tables[table]))
	copy(rows, m.tables[table])
	return rows
}

func (m *Memory) Upsert(ctx context.Context, table string, row Row, conflictCols []string) error {
	if m.Err != nil {
		return &StoreError{Kind: KindNetwork, Op: "upsert", Table: table, Err: m.Err}
	}
	if m.UpsertHook != nil {
		if err := m.UpsertHook(table, row); err != nil {
			return &StoreError{Kind: KindNetwork, Op: "upsert", Table: table, Err: err}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	for i, existing := range rows {
		if matchCols(existing, row, conflictCols) {
			merged := Row{}
			for k, v := range existing {
				merged[k] = v
			}
			for k, v := range row {
				merged[k] = v
			}
			rows[i] = merged
			return nil
		}
	}
	m.tables[table] = append(rows, cloneRow(row))
	return nil
}

func (m *Memory) Select(ctx context.Context, table string, filter Filter, orderBy string, limit int, dest any) error {
	if m.Err != nil {
		return &StoreError{Kind: KindNetwork, Op: "select", Table: table, Err: m.Err}
	}

	m.mu.Lock()
	var matched []Row
	for _, row := range m.tables[table] {
		if matchFilter(row, filter) {
			matched = append(matched, cloneRow(row))
		}
	}
	m.mu.Unlock()

	if orderBy != "" {
		col, desc := parseOrder(orderBy)
		sort.SliceStable(matched, func(i, j int) bool {
			c := compareValues(matched[i][col], matched[j][col])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	// Round-trip through JSON so dest can be a slice of structs or maps,
	// same as a database driver would scan.
	payload, err := json.Marshal(matched)
	if err != nil {
		return &StoreError{Kind: KindValidation, Op: "select", Table: table, Err: err}
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return &StoreError{Kind: KindValidation, Op: "select", Table: table, Err: err}
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, table string, filter Filter) error {
	if m.Err != nil {
		return &StoreError{Kind: KindNetwork, Op: "delete", Table: table, Err: m.Err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Row
	for _, row := range m.tables[table] {
		if !matchFilter(row, filter) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func cloneRow(row Row) Row {
	out := Row{}
	for k, v := range row {
		out[k] = v
	}
	return out
}

func matchCols(a, b Row, cols []string) bool {
	for _, c := range cols {
		if !valueEq(a[c], b[c]) {
			return false
		}
	}
	return true
}

func matchFilter(row Row, filter Filter) bool {
	for k, want := range filter {
		if !valueEq(row[k], want) {
			return false
		}
	}
	return true
}

// valueEq compares loosely across the numeric and pointer types that show up
// in rows built from structs versus literals in tests.
func valueEq(a, b any) bool {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

func parseOrder(orderBy string) (col string, desc bool) {
	parts := strings.Fields(orderBy)
	if len(parts) == 0 {
		return "", false
	}
	col = parts[0]
	desc = len(parts) > 1 && strings.EqualFold(parts[1], "desc")
	return col, desc
}

func compareValues(a, b any) int {
	a, b = deref(a), deref(b)
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}
