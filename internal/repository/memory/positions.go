package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/school-directory/internal/domain"
	"github.com/spec-kit/school-directory/internal/repository"
)

type positionRepository struct {
	view
}

func (r *positionRepository) Create(ctx context.Context, position *domain.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.positionCodes[position.Code]; taken {
		return &repository.DuplicateError{Entity: "position", Field: "code"}
	}

	id, seq, now := s.stamp()
	position.ID = id
	position.CreatedAt = now
	position.UpdatedAt = now
	s.positions[id] = record[domain.Position]{seq: seq, value: *position}
	s.positionCodes[position.Code] = id

	code := position.Code
	r.record(func() {
		delete(s.positions, id)
		delete(s.positionCodes, code)
	})
	return nil
}

func (r *positionRepository) List(ctx context.Context) ([]domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.positions, func(p domain.Position) time.Time { return p.CreatedAt }), nil
}

func (r *positionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.positionCodes[code]
	return ok, nil
}

func (r *positionRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, repository.ErrInvalidReference
		}
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.Position{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := s.positions[id]; ok {
			result = append(result, rec.value)
		}
	}
	return result, nil
}
