package repository

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/school-directory/internal/domain"
)

type teacherRepository struct {
	db       DBTX
	parallel bool
}

func (r *teacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	const query = `
        INSERT INTO teachers (code, name, email, phone, status, address, degrees, start_date, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::uuid)
        RETURNING id::text, created_at, updated_at`

	degrees := teacher.Degrees
	if degrees == nil {
		degrees = []domain.Degree{}
	}

	if err := r.db.QueryRow(ctx, query,
		teacher.Code,
		teacher.Name,
		teacher.Email,
		teacher.Phone,
		teacher.Status,
		teacher.Address,
		degrees,
		teacher.StartDate,
		teacher.AccountID,
	).Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
		return translateError(err)
	}

	if len(teacher.PositionIDs) == 0 {
		return nil
	}

	const assign = `
        INSERT INTO teacher_position_assignments (teacher_id, position_id, ordinal)
        SELECT $1::uuid, p.id::uuid, p.ord
        FROM unnest($2::text[]) WITH ORDINALITY AS p(id, ord)
        ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, assign, teacher.ID, teacher.PositionIDs); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *teacherRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE code=$1)`, code)
}

func (r *teacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE email=$1)`, email)
}

func (r *teacherRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, translateError(err)
	}
	return exists, nil
}

// ListPage returns one page of teachers, newest first, with their account and
// positions resolved, plus the total number of teachers.
func (r *teacherRepository) ListPage(ctx context.Context, filter TeacherFilter) ([]domain.TeacherDetails, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		items []domain.TeacherDetails
		total int
	)
	page := func(ctx context.Context) error {
		var err error
		items, err = r.page(ctx, limit, offset)
		return err
	}
	count := func(ctx context.Context) error {
		return translateError(r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teachers`).Scan(&total))
	}

	if r.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return page(gctx) })
		g.Go(func() error { return count(gctx) })
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
	} else {
		if err := page(ctx); err != nil {
			return nil, 0, err
		}
		if err := count(ctx); err != nil {
			return nil, 0, err
		}
	}

	if err := r.attachPositions(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *teacherRepository) page(ctx context.Context, limit, offset int) ([]domain.TeacherDetails, error) {
	const query = `
        SELECT t.id::text, t.code, t.name, t.email, t.phone, t.status, t.address, t.degrees,
               t.start_date, t.user_id::text, t.created_at, t.updated_at,
               u.id::text, u.email, u.name, u.phone_number, u.address, u.dob, u.role,
               u.is_deleted, u.account_id, u.created_at, u.updated_at
        FROM teachers t
        JOIN users u ON u.id = t.user_id
        ORDER BY t.created_at DESC, t.id DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	result := []domain.TeacherDetails{}
	for rows.Next() {
		var item domain.TeacherDetails
		targets := []any{
			&item.ID,
			&item.Code,
			&item.Name,
			&item.Email,
			&item.Phone,
			&item.Status,
			&item.Address,
			&item.Degrees,
			&item.StartDate,
			&item.AccountID,
			&item.CreatedAt,
			&item.UpdatedAt,
		}
		targets = append(targets, userScanTargets(&item.Account)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		item.PositionIDs = []string{}
		item.Positions = []domain.Position{}
		result = append(result, item)
	}
	return result, translateError(rows.Err())
}

func (r *teacherRepository) attachPositions(ctx context.Context, items []domain.TeacherDetails) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	index := make(map[string]int, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
		index[items[i].ID] = i
	}

	query := `
        SELECT a.teacher_id::text, ` + prefixColumns("p", positionColumns) + `
        FROM teacher_position_assignments a
        JOIN teacher_positions p ON p.id = a.position_id
        WHERE a.teacher_id = ANY($1::text[]::uuid[])
        ORDER BY a.teacher_id, a.ordinal`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return translateError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teacherID string
			position  domain.Position
		)
		targets := append([]any{&teacherID}, positionScanTargets(&position)...)
		if err := rows.Scan(targets...); err != nil {
			return err
		}
		i, ok := index[teacherID]
		if !ok {
			continue
		}
		items[i].PositionIDs = append(items[i].PositionIDs, position.ID)
		items[i].Positions = append(items[i].Positions, position)
	}
	return translateError(rows.Err())
}
