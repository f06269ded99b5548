package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs Store with a relational database through gorm. The
// production deployment points it at Postgres; tests can hand it any
// dialector.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Upsert(ctx context.Context, table string, row Row, conflictCols []string) error {
	cols := make([]clause.Column, 0, len(conflictCols))
	for _, c := range conflictCols {
		cols = append(cols, clause.Column{Name: c})
	}

	err := s.db.WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{
			Columns:   cols,
			DoUpdates: clause.Assignments(row),
		}).
		Create(map[string]any(row)).Error
	if err != nil {
		return &StoreError{Kind: classify(err), Op: "upsert", Table: table, Err: err}
	}
	return nil
}

func (s *GormStore) Select(ctx context.Context, table string, filter Filter, orderBy string, limit int, dest any) error {
	q := s.db.WithContext(ctx).Table(table).Where(map[string]any(filter))
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(dest).Error; err != nil {
		return &StoreError{Kind: classify(err), Op: "select", Table: table, Err: err}
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, table string, filter Filter) error {
	err := s.db.WithContext(ctx).
		Table(table).
		Where(map[string]any(filter)).
		Delete(nil).Error
	if err != nil {
		return &StoreError{Kind: classify(err), Op: "delete", Table: table, Err: err}
	}
	return nil
}

// classify maps a gorm error to a Kind. Constraint violations are the
// caller's payload problem; everything else is assumed transient.
func classify(err error) Kind {
	switch {
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return KindValidation
	default:
		return KindNetwork
	}
}
