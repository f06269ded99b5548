package remote

import "context"

// Disabled is the Store used when no remote backend is configured. Every
// call fails with KindNotConfigured so the offline fallbacks kick in
// immediately and permanently; the application keeps working on local state
// alone.
type Disabled struct{}

func NewDisabled() *Disabled {
	return &Disabled{}
}

func (Disabled) Upsert(ctx context.Context, table string, row Row, conflictCols []string) error {
	return &StoreError{Kind: KindNotConfigured, Op: "upsert", Table: table}
}

func (Disabled) Select(ctx context.Context, table string, filter Filter, orderBy string, limit int, dest any) error {
	return &StoreError{Kind: KindNotConfigured, Op: "select", Table: table}
}

func (Disabled) Delete(ctx context.Context, table string, filter Filter) error {
	return &StoreError{Kind: KindNotConfigured, Op: "delete", Table: table}
}
