package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spec-kit/school-directory/internal/domain"
	"github.com/spec-kit/school-directory/internal/repository"
)

type teacherRepository struct {
	view
}

func (r *teacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.teacherCodes[teacher.Code]; taken {
		return &repository.DuplicateError{Entity: "teacher", Field: "code"}
	}
	if _, taken := s.teacherEmails[teacher.Email]; taken {
		return &repository.DuplicateError{Entity: "teacher", Field: "email"}
	}
	if _, ok := s.accounts[teacher.AccountID]; !ok {
		return fmt.Errorf("%w: user %q", repository.ErrInvalidReference, teacher.AccountID)
	}

	positionIDs := make([]string, 0, len(teacher.PositionIDs))
	for _, id := range teacher.PositionIDs {
		if _, ok := s.positions[id]; !ok {
			return fmt.Errorf("%w: position %q", repository.ErrInvalidReference, id)
		}
		if !slices.Contains(positionIDs, id) {
			positionIDs = append(positionIDs, id)
		}
	}

	id, seq, now := s.stamp()
	teacher.ID = id
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	teacher.PositionIDs = positionIDs

	stored := *teacher
	stored.Degrees = slices.Clone(teacher.Degrees)
	stored.PositionIDs = slices.Clone(positionIDs)
	s.teachers[id] = record[domain.Teacher]{seq: seq, value: stored}
	s.teacherCodes[stored.Code] = id
	s.teacherEmails[stored.Email] = id

	r.record(func() {
		delete(s.teachers, id)
		delete(s.teacherCodes, stored.Code)
		delete(s.teacherEmails, stored.Email)
	})
	return nil
}

func (r *teacherRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.teacherCodes[code]
	return ok, nil
}

func (r *teacherRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.teacherEmails[email]
	return ok, nil
}

func (r *teacherRepository) ListPage(ctx context.Context, filter repository.TeacherFilter) ([]domain.TeacherDetails, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := max(filter.Offset, 0)

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sorted(s.teachers, func(t domain.Teacher) time.Time { return t.CreatedAt })
	slices.Reverse(all)
	total := len(all)

	result := []domain.TeacherDetails{}
	if offset >= total {
		return result, total, nil
	}
	end := min(offset+limit, total)
	for _, teacher := range all[offset:end] {
		item := domain.TeacherDetails{Teacher: teacher}
		item.Degrees = slices.Clone(teacher.Degrees)
		item.PositionIDs = slices.Clone(teacher.PositionIDs)
		item.Account = s.accounts[teacher.AccountID].value
		item.Positions = make([]domain.Position, 0, len(teacher.PositionIDs))
		for _, id := range teacher.PositionIDs {
			item.Positions = append(item.Positions, s.positions[id].value)
		}
		result = append(result, item)
	}
	return result, total, nil
}
