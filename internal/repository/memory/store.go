// Package memory provides an in-process implementation of repository.Store.
// It enforces the same unique indexes as the PostgreSQL schema and is used
// when no database is configured and as the storage fake in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/school-directory/internal/domain"
	"github.com/spec-kit/school-directory/internal/repository"
)

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store keeps all records in maps guarded by a single lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	accounts  map[string]record[domain.Account]
	positions map[string]record[domain.Position]
	teachers  map[string]record[domain.Teacher]

	positionCodes map[string]string
	teacherCodes  map[string]string
	teacherEmails map[string]string
}

type record[T any] struct {
	seq   int64
	value T
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		accounts:      make(map[string]record[domain.Account]),
		positions:     make(map[string]record[domain.Position]),
		teachers:      make(map[string]record[domain.Teacher]),
		positionCodes: make(map[string]string),
		teacherCodes:  make(map[string]string),
		teacherEmails: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Accounts() repository.AccountRepository {
	return view{store: s}.Accounts()
}

func (s *Store) Positions() repository.PositionRepository {
	return view{store: s}.Positions()
}

func (s *Store) Teachers() repository.TeacherRepository {
	return view{store: s}.Teachers()
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return view{store: s}.WithTx(ctx, fn)
}

// journal collects undo steps for writes made inside WithTx.
type journal struct {
	undo []func()
}

// view is the repository.Store handed out by Store, optionally bound to a journal.
type view struct {
	store   *Store
	journal *journal
}

func (v view) Accounts() repository.AccountRepository {
	return &accountRepository{view: v}
}

func (v view) Positions() repository.PositionRepository {
	return &positionRepository{view: v}
}

func (v view) Teachers() repository.TeacherRepository {
	return &teacherRepository{view: v}
}

func (v view) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if v.journal != nil {
		return fn(v)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	j := &journal{}
	if err := fn(view{store: v.store, journal: j}); err != nil {
		v.store.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		v.store.mu.Unlock()
		return err
	}
	return nil
}

// record registers an undo step; callers hold the store lock.
func (v view) record(fn func()) {
	if v.journal != nil {
		v.journal.undo = append(v.journal.undo, fn)
	}
}

// stamp assigns identity and timestamps; callers hold the store lock.
func (s *Store) stamp() (string, int64, time.Time) {
	s.seq++
	return uuid.NewString(), s.seq, s.now().UTC()
}

// sorted returns the records ordered by creation, oldest first.
func sorted[T any](records map[string]record[T], createdAt func(T) time.Time) []T {
	list := make([]record[T], 0, len(records))
	for _, rec := range records {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		ti, tj := createdAt(list[i].value), createdAt(list[j].value)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return list[i].seq < list[j].seq
	})
	out := make([]T, 0, len(list))
	for _, rec := range list {
		out = append(out, rec.value)
	}
	return out
}
