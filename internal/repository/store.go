package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/school-directory/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store groups the entity repositories over one storage backend.
type Store interface {
	Accounts() AccountRepository
	Positions() PositionRepository
	Teachers() TeacherRepository
	// WithTx runs fn against a transactional view of the store. Writes made
	// through the view are discarded when fn returns an error.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// AccountRepository persists accounts (users).
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
}

// PositionRepository persists teacher positions.
type PositionRepository interface {
	Create(ctx context.Context, position *domain.Position) error
	List(ctx context.Context) ([]domain.Position, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Position, error)
}

// TeacherRepository persists teachers and their position assignments.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListPage(ctx context.Context, filter TeacherFilter) ([]domain.TeacherDetails, int, error)
}

// TeacherFilter defines the page window for teacher listing.
type TeacherFilter struct {
	Limit  int
	Offset int
}
