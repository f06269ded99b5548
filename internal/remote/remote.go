// Package remote abstracts the hosted row store that holds durable user
// state (watch history, progress pointers, watchlist rows). Local caches and
// queues treat it as the source of truth whenever it is reachable.
package remote

import "context"

// Filter is a conjunction of column equality conditions.
type Filter map[string]any

// Row is one record expressed as column name to value.
type Row map[string]any

// Store is a generic row-store interface. This subsystem uses a handful of
// logical tables (watch_history, user_progress, user_media); the interface
// stays table-agnostic so one implementation serves all of them.
type Store interface {
	// Upsert inserts row into table, updating the existing record when one
	// already exists for the same values of conflictCols.
	Upsert(ctx context.Context, table string, row Row, conflictCols []string) error

	// Select loads rows matching filter into dest (a pointer to a slice of
	// structs or maps), ordered by orderBy when non-empty and capped at
	// limit when positive. No matches is not an error.
	Select(ctx context.Context, table string, filter Filter, orderBy string, limit int, dest any) error

	// Delete removes every row matching filter. Deleting nothing is not an
	// error.
	Delete(ctx context.Context, table string, filter Filter) error
}
