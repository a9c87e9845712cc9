package postgres

import (
	"context"
	"database/sql"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/terms"
)

type TermsRepo struct {
	db *sql.DB
}

func NewTermsRepo(db *sql.DB) *TermsRepo {
	return &TermsRepo{db: db}
}

func (r *TermsRepo) GetByUserID(ctx context.Context, userID string) (terms.Acceptance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id, terms_of_use, lgpd,
			version, ip, user_agent,
			accepted_at, revoked, revoked_at, updated_at
		FROM terms_acceptances
		WHERE user_id = $1
	`, userID)

	var a terms.Acceptance
	var revokedAt sql.NullTime
	if err := row.Scan(
		&a.ID, &a.UserID, &a.TermsOfUse, &a.LGPD,
		&a.Version, &a.IP, &a.UserAgent,
		&a.AcceptedAt, &a.Revoked, &revokedAt, &a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return terms.Acceptance{}, ErrNotFound
		}
		return terms.Acceptance{}, err
	}
	a.RevokedAt = fromNullTime(revokedAt)
	return a, nil
}

func (r *TermsRepo) Upsert(ctx context.Context, a terms.Acceptance) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO terms_acceptances (
			id, user_id, terms_of_use, lgpd,
			version, ip, user_agent,
			accepted_at, revoked, revoked_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (user_id) DO UPDATE SET
			terms_of_use = EXCLUDED.terms_of_use,
			lgpd = EXCLUDED.lgpd,
			version = EXCLUDED.version,
			ip = EXCLUDED.ip,
			user_agent = EXCLUDED.user_agent,
			accepted_at = EXCLUDED.accepted_at,
			revoked = EXCLUDED.revoked,
			revoked_at = EXCLUDED.revoked_at,
			updated_at = EXCLUDED.updated_at
	`,
		a.ID, a.UserID, a.TermsOfUse, a.LGPD,
		a.Version, a.IP, a.UserAgent,
		a.AcceptedAt, a.Revoked, toNullTime(a.RevokedAt), a.UpdatedAt,
	)
	return err
}
