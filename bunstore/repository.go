package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/abyx/RailsLookup/lookup"
)

// Interface assertion to ensure RepositoryStore implements lookup.Store.
var _ lookup.Store = (*RepositoryStore)(nil)

// RepositoryStore adapts a go-repository-bun repository into the
// lookup.Store contract. The repository is already bound to one model and
// table, so the lookup.Table argument on each call only labels errors and
// selects the column to filter on; it does not re-route queries.
type RepositoryStore struct {
	repo       repository.Repository[*lookup.Entry]
	isNotFound func(error) bool
}

// RepositoryOption configures optional RepositoryStore behavior.
type RepositoryOption func(*RepositoryStore)

// WithNotFoundClassifier overrides how repository errors are recognized as
// "no such row". The default accepts sql.ErrNoRows and errors whose message
// contains "not found".
func WithNotFoundClassifier(fn func(error) bool) RepositoryOption {
	return func(rs *RepositoryStore) {
		if fn != nil {
			rs.isNotFound = fn
		}
	}
}

// NewRepositoryStore creates a store over repo.
func NewRepositoryStore(repo repository.Repository[*lookup.Entry], opts ...RepositoryOption) *RepositoryStore {
	rs := &RepositoryStore{
		repo:       repo,
		isNotFound: defaultNotFound,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

func defaultNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// byColumn builds a criteria function filtering on a single column.
func byColumn(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}

// FindByName implements lookup.Store.
func (rs *RepositoryStore) FindByName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	rec, err := rs.repo.Get(ctx, byColumn(table.NameColumn, name))
	if err != nil {
		if rs.isNotFound(err) {
			return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, Name: name}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-name", Err: err}
	}
	return *rec, nil
}

// FindByID implements lookup.Store.
func (rs *RepositoryStore) FindByID(ctx context.Context, table lookup.Table, id int64) (lookup.Entry, error) {
	rec, err := rs.repo.GetByID(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		if rs.isNotFound(err) {
			return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, ID: id}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-id", Err: err}
	}
	return *rec, nil
}

// CreateWithUniqueName implements lookup.Store.
func (rs *RepositoryStore) CreateWithUniqueName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	rec, err := rs.repo.Create(ctx, &lookup.Entry{Name: name})
	if err != nil {
		if isDuplicateName(err) {
			return lookup.Entry{}, &lookup.DuplicateNameError{Table: table.Name, Name: name, Err: err}
		}
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "create", Err: err}
	}
	return *rec, nil
}
