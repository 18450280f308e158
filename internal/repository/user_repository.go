package repository

import (
	"context"

	"github.com/spec-kit/school-directory/internal/domain"
)

type userRepository struct {
	db DBTX
}

const userColumns = `id::text, email, name, phone_number, address, dob, role, is_deleted, account_id, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO users (email, name, phone_number, address, dob, role, is_deleted, account_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id::text, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.Email,
		account.Name,
		account.PhoneNumber,
		account.Address,
		account.DateOfBirth,
		account.Role,
		account.IsDeleted,
		account.AccountID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	return translateError(err)
}

func (r *userRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	result := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(userScanTargets(&account)...); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func userScanTargets(account *domain.Account) []any {
	return []any{
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PhoneNumber,
		&account.Address,
		&account.DateOfBirth,
		&account.Role,
		&account.IsDeleted,
		&account.AccountID,
		&account.CreatedAt,
		&account.UpdatedAt,
	}
}
