package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/abyx/RailsLookup/lookup"
)

// fakeRepo embeds the repository interface so only the methods the adapter
// uses need real implementations; anything else panics if reached.
type fakeRepo struct {
	repository.Repository[*lookup.Entry]

	getResult     *lookup.Entry
	getErr        error
	getByIDResult *lookup.Entry
	getByIDErr    error
	createResult  *lookup.Entry
	createErr     error

	lastGetByID string
}

func (f *fakeRepo) Get(ctx context.Context, criteria ...repository.SelectCriteria) (*lookup.Entry, error) {
	return f.getResult, f.getErr
}

func (f *fakeRepo) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*lookup.Entry, error) {
	f.lastGetByID = id
	return f.getByIDResult, f.getByIDErr
}

func (f *fakeRepo) Create(ctx context.Context, record *lookup.Entry, criteria ...repository.InsertCriteria) (*lookup.Entry, error) {
	return f.createResult, f.createErr
}

func TestRepositoryStore_FindByName(t *testing.T) {
	ctx := context.Background()
	table := lookup.NewTable("car_types")
	entry := &lookup.Entry{ID: 3, Name: "Sports"}

	store := NewRepositoryStore(&fakeRepo{getResult: entry})
	got, err := store.FindByName(ctx, table, "Sports")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if got != *entry {
		t.Errorf("got %+v, want %+v", got, *entry)
	}

	store = NewRepositoryStore(&fakeRepo{getErr: sql.ErrNoRows})
	_, err = store.FindByName(ctx, table, "Sports")
	if !lookup.IsNotFound(err) {
		t.Errorf("expected NotFoundError for sql.ErrNoRows, got %v", err)
	}

	store = NewRepositoryStore(&fakeRepo{getErr: errors.New("record not found")})
	_, err = store.FindByName(ctx, table, "Sports")
	if !lookup.IsNotFound(err) {
		t.Errorf("expected NotFoundError for message-classified miss, got %v", err)
	}

	down := errors.New("connection refused")
	store = NewRepositoryStore(&fakeRepo{getErr: down})
	_, err = store.FindByName(ctx, table, "Sports")
	var se *lookup.StoreError
	if !errors.As(err, &se) || !errors.Is(err, down) {
		t.Errorf("expected StoreError wrapping the cause, got %v", err)
	}
}

func TestRepositoryStore_FindByID(t *testing.T) {
	ctx := context.Background()
	table := lookup.NewTable("car_types")
	entry := &lookup.Entry{ID: 42, Name: "Compact"}

	repo := &fakeRepo{getByIDResult: entry}
	store := NewRepositoryStore(repo)

	got, err := store.FindByID(ctx, table, 42)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got != *entry {
		t.Errorf("got %+v, want %+v", got, *entry)
	}
	if repo.lastGetByID != "42" {
		t.Errorf("expected id formatted as string, got %q", repo.lastGetByID)
	}

	store = NewRepositoryStore(&fakeRepo{getByIDErr: sql.ErrNoRows})
	_, err = store.FindByID(ctx, table, 7)
	if !lookup.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestRepositoryStore_CreateWithUniqueName(t *testing.T) {
	ctx := context.Background()
	table := lookup.NewTable("car_types")

	created := &lookup.Entry{ID: 5, Name: "SUV"}
	store := NewRepositoryStore(&fakeRepo{createResult: created})
	got, err := store.CreateWithUniqueName(ctx, table, "SUV")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got != *created {
		t.Errorf("got %+v, want %+v", got, *created)
	}

	dup := errors.New("UNIQUE constraint failed: car_types.name")
	store = NewRepositoryStore(&fakeRepo{createErr: dup})
	_, err = store.CreateWithUniqueName(ctx, table, "SUV")
	if !lookup.IsDuplicateName(err) {
		t.Errorf("expected DuplicateNameError, got %v", err)
	}

	down := errors.New("connection refused")
	store = NewRepositoryStore(&fakeRepo{createErr: down})
	_, err = store.CreateWithUniqueName(ctx, table, "SUV")
	var se *lookup.StoreError
	if !errors.As(err, &se) || !errors.Is(err, down) {
		t.Errorf("expected StoreError wrapping the cause, got %v", err)
	}
}

func TestRepositoryStore_CustomNotFoundClassifier(t *testing.T) {
	ctx := context.Background()
	table := lookup.NewTable("car_types")
	marker := errors.New("E404")

	store := NewRepositoryStore(
		&fakeRepo{getErr: marker},
		WithNotFoundClassifier(func(err error) bool { return errors.Is(err, marker) }),
	)

	_, err := store.FindByName(ctx, table, "Sports")
	if !lookup.IsNotFound(err) {
		t.Errorf("expected custom classifier to map the miss, got %v", err)
	}
}
