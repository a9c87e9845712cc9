package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/accounts"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

const userColumns = `
	id, email, name, role,
	password_hash, active,
	failed_logins, blocked_until,
	created_at, updated_at`

func (r *AccountsRepo) Create(ctx context.Context, u accounts.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, role,
			password_hash, active,
			failed_logins, blocked_until,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		u.ID,
		u.Email,
		u.Name,
		string(u.Role),
		u.PasswordHash,
		u.Active,
		u.FailedLogins,
		toNullTime(u.BlockedUntil),
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *AccountsRepo) Update(ctx context.Context, u accounts.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			name = $3,
			role = $4,
			password_hash = $5,
			active = $6,
			failed_logins = $7,
			blocked_until = $8,
			updated_at = $9
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.Name,
		string(u.Role),
		u.PasswordHash,
		u.Active,
		u.FailedLogins,
		toNullTime(u.BlockedUntil),
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accounts.User{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return accounts.User{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT`+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (accounts.User, error) {
	var u accounts.User
	var role string
	var blocked sql.NullTime
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&role,
		&u.PasswordHash,
		&u.Active,
		&u.FailedLogins,
		&blocked,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.User{}, ErrNotFound
		}
		return accounts.User{}, err
	}
	u.Role = auth.Role(role)
	u.BlockedUntil = fromNullTime(blocked)
	return u, nil
}
