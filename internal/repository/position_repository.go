package repository

import (
	"context"

	"github.com/spec-kit/school-directory/internal/domain"
)

type positionRepository struct {
	db DBTX
}

const positionColumns = `id::text, code, name, description, is_active, is_deleted, created_at, updated_at`

func (r *positionRepository) Create(ctx context.Context, position *domain.Position) error {
	const query = `
        INSERT INTO teacher_positions (code, name, description, is_active, is_deleted)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		position.Code,
		position.Name,
		position.Description,
		position.IsActive,
		position.IsDeleted,
	).Scan(&position.ID, &position.CreatedAt, &position.UpdatedAt)
	return translateError(err)
}

func (r *positionRepository) List(ctx context.Context) ([]domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM teacher_positions ORDER BY created_at, id`
	return r.query(ctx, query)
}

func (r *positionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teacher_positions WHERE code=$1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, translateError(err)
	}
	return exists, nil
}

// GetByIDs returns the positions matching ids in no particular order. Unknown
// ids are skipped; a malformed id yields ErrInvalidReference.
func (r *positionRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Position, error) {
	if len(ids) == 0 {
		return []domain.Position{}, nil
	}
	query := `SELECT ` + positionColumns + ` FROM teacher_positions WHERE id = ANY($1::text[]::uuid[])`
	return r.query(ctx, query, ids)
}

func (r *positionRepository) query(ctx context.Context, query string, args ...any) ([]domain.Position, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	result := []domain.Position{}
	for rows.Next() {
		var position domain.Position
		if err := rows.Scan(positionScanTargets(&position)...); err != nil {
			return nil, err
		}
		result = append(result, position)
	}
	return result, translateError(rows.Err())
}

func positionScanTargets(position *domain.Position) []any {
	return []any{
		&position.ID,
		&position.Code,
		&position.Name,
		&position.Description,
		&position.IsActive,
		&position.IsDeleted,
		&position.CreatedAt,
		&position.UpdatedAt,
	}
}
