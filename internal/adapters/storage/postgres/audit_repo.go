package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/audit"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e audit.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, actor_id, actor_email,
			method, path, route_name, status_code,
			ip, user_agent, params, message,
			duration_ms, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		e.ID, e.ActorID, e.ActorEmail,
		e.Method, e.Path, e.RouteName, e.StatusCode,
		e.IP, e.UserAgent, e.Params, e.Message,
		e.DurationMS, e.CreatedAt,
	)
	return err
}

func (r *AuditRepo) List(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.Method != "" {
		add("method = $%d", f.Method)
	}
	if f.PathPrefix != "" {
		add("path LIKE $%d", f.PathPrefix+"%")
	}
	if f.StatusCode != 0 {
		add("status_code = $%d", f.StatusCode)
	}
	if f.Since != nil {
		add("created_at >= $%d", *f.Since)
	}

	query := `
		SELECT
			id, actor_id, actor_email,
			method, path, route_name, status_code,
			ip, user_agent, params, message,
			duration_ms, created_at
		FROM audit_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	args = append(args, f.Limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorEmail,
			&e.Method, &e.Path, &e.RouteName, &e.StatusCode,
			&e.IP, &e.UserAgent, &e.Params, &e.Message,
			&e.DurationMS, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
