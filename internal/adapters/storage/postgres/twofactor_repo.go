package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/twofactor"
)

type TwoFactorRepo struct {
	db *sql.DB
}

func NewTwoFactorRepo(db *sql.DB) *TwoFactorRepo {
	return &TwoFactorRepo{db: db}
}

func (r *TwoFactorRepo) Get(ctx context.Context, userID string) (twofactor.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id, enabled, method, totp_secret, backup_codes,
			require_every_login, enabled_at, last_used_at,
			created_at, updated_at
		FROM two_factor_settings
		WHERE user_id = $1
	`, userID)

	var s twofactor.Settings
	var method, backup string
	var enabledAt, lastUsedAt sql.NullTime
	if err := row.Scan(
		&s.UserID, &s.Enabled, &method, &s.TOTPSecret, &backup,
		&s.RequireEveryLogin, &enabledAt, &lastUsedAt,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return twofactor.Settings{}, ErrNotFound
		}
		return twofactor.Settings{}, err
	}

	s.Method = twofactor.Method(method)
	s.BackupCodes = splitCodes(backup)
	s.EnabledAt = fromNullTime(enabledAt)
	s.LastUsedAt = fromNullTime(lastUsedAt)
	return s, nil
}

func (r *TwoFactorRepo) Upsert(ctx context.Context, s twofactor.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO two_factor_settings (
			user_id, enabled, method, totp_secret, backup_codes,
			require_every_login, enabled_at, last_used_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			method = EXCLUDED.method,
			totp_secret = EXCLUDED.totp_secret,
			backup_codes = EXCLUDED.backup_codes,
			require_every_login = EXCLUDED.require_every_login,
			enabled_at = EXCLUDED.enabled_at,
			last_used_at = EXCLUDED.last_used_at,
			updated_at = EXCLUDED.updated_at
	`,
		s.UserID, s.Enabled, string(s.Method), s.TOTPSecret, strings.Join(s.BackupCodes, ","),
		s.RequireEveryLogin, toNullTime(s.EnabledAt), toNullTime(s.LastUsedAt),
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *TwoFactorRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM two_factor_settings WHERE user_id = $1`, userID)
	return err
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
