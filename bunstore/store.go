package bunstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/abyx/RailsLookup/lookup"
)

// Interface assertion to ensure Store implements lookup.Store.
var _ lookup.Store = (*Store)(nil)

// Store resolves lookup entries against a *bun.DB. Table and column names
// come from the lookup.Table passed to each call, quoted as identifiers, so
// a single Store instance serves every lookup table in the database.
type Store struct {
	db  *bun.DB
	log *zap.Logger
}

// Option configures optional Store collaborators.
type Option func(*Store)

// WithLogger attaches a structured logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store over db.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByName implements lookup.Store.
func (s *Store) FindByName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	var e lookup.Entry
	err := s.db.NewSelect().
		TableExpr("? AS t", bun.Ident(table.Name)).
		ColumnExpr("t.?", bun.Ident(table.IDColumn)).
		ColumnExpr("t.?", bun.Ident(table.NameColumn)).
		Where("t.? = ?", bun.Ident(table.NameColumn), name).
		Limit(1).
		Scan(ctx, &e.ID, &e.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, Name: name}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-name", Err: err}
	}
	return e, nil
}

// FindByID implements lookup.Store.
func (s *Store) FindByID(ctx context.Context, table lookup.Table, id int64) (lookup.Entry, error) {
	var e lookup.Entry
	err := s.db.NewSelect().
		TableExpr("? AS t", bun.Ident(table.Name)).
		ColumnExpr("t.?", bun.Ident(table.IDColumn)).
		ColumnExpr("t.?", bun.Ident(table.NameColumn)).
		Where("t.? = ?", bun.Ident(table.IDColumn), id).
		Limit(1).
		Scan(ctx, &e.ID, &e.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, ID: id}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-id", Err: err}
	}
	return e, nil
}

// CreateWithUniqueName implements lookup.Store. The id is assigned by the
// database and read back through RETURNING, which both Postgres and modern
// sqlite support.
func (s *Store) CreateWithUniqueName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	e := lookup.Entry{Name: name}
	err := s.db.NewRaw(
		"INSERT INTO ? (?) VALUES (?) RETURNING ?",
		bun.Ident(table.Name),
		bun.Ident(table.NameColumn),
		name,
		bun.Ident(table.IDColumn),
	).Scan(ctx, &e.ID)
	if err != nil {
		if isDuplicateName(err) {
			s.log.Debug("duplicate name on create",
				zap.String("table", table.Name),
				zap.String("name", name))
			return lookup.Entry{}, &lookup.DuplicateNameError{Table: table.Name, Name: name, Err: err}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "create", Err: err}
	}
	return e, nil
}
