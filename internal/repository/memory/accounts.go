package memory

import (
	"context"
	"time"

	"github.com/spec-kit/school-directory/internal/domain"
)

type accountRepository struct {
	view
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, seq, now := s.stamp()
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[id] = record[domain.Account]{seq: seq, value: *account}

	r.record(func() {
		delete(s.accounts, id)
	})
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sorted(s.accounts, func(a domain.Account) time.Time { return a.CreatedAt }), nil
}
