package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/adoptions"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const requestColumns = `
	id, pet_id, adopter_id,
	motive, experience, housing,
	status,
	requested_at, responded_at, response,
	interview_at, interview_location, interview_notes,
	pickup_at, pickup_notes,
	term_accepted, term_accepted_at,
	cancellation_reason, cancelled_at,
	updated_at`

func (r *AdoptionsRepo) Create(ctx context.Context, req adoptions.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_requests (
			id, pet_id, adopter_id,
			motive, experience, housing,
			status,
			requested_at, responded_at, response,
			interview_at, interview_location, interview_notes,
			pickup_at, pickup_notes,
			term_accepted, term_accepted_at,
			cancellation_reason, cancelled_at,
			updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,
			$8,$9,$10,
			$11,$12,$13,
			$14,$15,
			$16,$17,
			$18,$19,
			$20
		)
	`, requestArgs(req)...)
	return err
}

func (r *AdoptionsRepo) Update(ctx context.Context, req adoptions.Request) error {
	return updateRequest(ctx, r.db, req)
}

// execer cobre *sql.DB e *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateRequest(ctx context.Context, db execer, req adoptions.Request) error {
	args := requestArgs(req)
	res, err := db.ExecContext(ctx, `
		UPDATE adoption_requests
		SET
			pet_id = $2, adopter_id = $3,
			motive = $4, experience = $5, housing = $6,
			status = $7,
			requested_at = $8, responded_at = $9, response = $10,
			interview_at = $11, interview_location = $12, interview_notes = $13,
			pickup_at = $14, pickup_notes = $15,
			term_accepted = $16, term_accepted_at = $17,
			cancellation_reason = $18, cancelled_at = $19,
			updated_at = $20
		WHERE id = $1
	`, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func requestArgs(req adoptions.Request) []any {
	return []any{
		req.ID, req.PetID, req.AdopterID,
		req.Motive, req.Experience, req.Housing,
		string(req.Status),
		req.RequestedAt, toNullTime(req.RespondedAt), req.Response,
		toNullTime(req.InterviewAt), req.InterviewLocation, req.InterviewNotes,
		toNullTime(req.PickupAt), req.PickupNotes,
		req.TermAccepted, toNullTime(req.TermAcceptedAt),
		req.CancellationReason, toNullTime(req.CancelledAt),
		req.UpdatedAt,
	}
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.Request{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT`+requestColumns+` FROM adoption_requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (r *AdoptionsRepo) HasActive(ctx context.Context, petID, adopterID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adoption_requests
			WHERE pet_id = $1 AND adopter_id = $2
			  AND status NOT IN ('interview_rejected','completed','rejected','cancelled')
		)
	`, petID, adopterID).Scan(&exists)
	return exists, err
}

func (r *AdoptionsRepo) ListByAdopter(ctx context.Context, adopterID string) ([]adoptions.Request, error) {
	return r.list(ctx, `SELECT`+requestColumns+`
		FROM adoption_requests
		WHERE adopter_id = $1
		ORDER BY requested_at DESC`, adopterID)
}

const requestColumnsQualified = `
	ar.id, ar.pet_id, ar.adopter_id,
	ar.motive, ar.experience, ar.housing,
	ar.status,
	ar.requested_at, ar.responded_at, ar.response,
	ar.interview_at, ar.interview_location, ar.interview_notes,
	ar.pickup_at, ar.pickup_notes,
	ar.term_accepted, ar.term_accepted_at,
	ar.cancellation_reason, ar.cancelled_at,
	ar.updated_at`

func (r *AdoptionsRepo) ListByOrganization(ctx context.Context, organizationID string, status adoptions.Status) ([]adoptions.Request, error) {
	query := `SELECT` + requestColumnsQualified + `
		FROM adoption_requests ar
		JOIN pets p ON p.id = ar.pet_id
		WHERE p.organization_id = $1`
	args := []any{organizationID}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` AND ar.status = $%d`, len(args))
	}
	query += ` ORDER BY ar.requested_at DESC`
	return r.list(ctx, query, args...)
}

func (r *AdoptionsRepo) ListByPet(ctx context.Context, petID string) ([]adoptions.Request, error) {
	return r.list(ctx, `SELECT`+requestColumns+`
		FROM adoption_requests
		WHERE pet_id = $1
		ORDER BY requested_at DESC`, petID)
}

func (r *AdoptionsRepo) StatsByOrganization(ctx context.Context, organizationID string) (adoptions.Stats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ar.status, COUNT(*)
		FROM adoption_requests ar
		JOIN pets p ON p.id = ar.pet_id
		WHERE p.organization_id = $1
		GROUP BY ar.status
	`, organizationID)
	if err != nil {
		return adoptions.Stats{}, err
	}
	defer rows.Close()
	return collectStats(rows)
}

func (r *AdoptionsRepo) StatsByPet(ctx context.Context, petID string) (adoptions.Stats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM adoption_requests
		WHERE pet_id = $1
		GROUP BY status
	`, petID)
	if err != nil {
		return adoptions.Stats{}, err
	}
	defer rows.Close()
	return collectStats(rows)
}

// Reserve roda numa transação com a linha do pet travada: grava a
// solicitação aprovada, reserva o pet e rejeita as irmãs ainda abertas.
// O lock garante que duas aprovações concorrentes não reservem o mesmo
// animal.
func (r *AdoptionsRepo) Reserve(ctx context.Context, req adoptions.Request, rejectionResponse string, at time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockPet(ctx, tx, req.PetID); err != nil {
			return err
		}
		if err := updateRequest(ctx, tx, req); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE pets
			SET status = $2, adopted_by_id = $3, updated_at = $4
			WHERE id = $1
		`, req.PetID, string(pets.StatusReserved), req.AdopterID, at); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE adoption_requests
			SET status = $3, response = $4, responded_at = $5, updated_at = $5
			WHERE pet_id = $1 AND id <> $2
			  AND status IN ('pending', 'in_interview')
		`, req.PetID, req.ID, string(adoptions.StatusRejected), rejectionResponse, at)
		return err
	})
}

// Release devolve o pet para available quando esta solicitação segurava a
// reserva, na mesma transação da gravação do cancelamento.
func (r *AdoptionsRepo) Release(ctx context.Context, req adoptions.Request) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockPet(ctx, tx, req.PetID); err != nil {
			return err
		}
		if err := updateRequest(ctx, tx, req); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE pets
			SET status = $3, adopted_by_id = NULL, updated_at = $4
			WHERE id = $1 AND status = $2 AND adopted_by_id = $5
		`, req.PetID, string(pets.StatusReserved), string(pets.StatusAvailable), req.UpdatedAt, req.AdopterID)
		return err
	})
}

// Complete marca o pet como adotado junto com a conclusão da solicitação.
func (r *AdoptionsRepo) Complete(ctx context.Context, req adoptions.Request, at time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := lockPet(ctx, tx, req.PetID); err != nil {
			return err
		}
		if err := updateRequest(ctx, tx, req); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE pets
			SET status = $2, adopted_by_id = $3, adopted_at = $4, updated_at = $4
			WHERE id = $1
		`, req.PetID, string(pets.StatusAdopted), req.AdopterID, at)
		return err
	})
}

func (r *AdoptionsRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func lockPet(ctx context.Context, tx *sql.Tx, petID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM pets WHERE id = $1 FOR UPDATE`, petID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (r *AdoptionsRepo) list(ctx context.Context, query string, args ...any) ([]adoptions.Request, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (adoptions.Request, error) {
	var req adoptions.Request
	var status string
	var respondedAt, interviewAt, pickupAt, termAt, cancelledAt sql.NullTime

	if err := row.Scan(
		&req.ID, &req.PetID, &req.AdopterID,
		&req.Motive, &req.Experience, &req.Housing,
		&status,
		&req.RequestedAt, &respondedAt, &req.Response,
		&interviewAt, &req.InterviewLocation, &req.InterviewNotes,
		&pickupAt, &req.PickupNotes,
		&req.TermAccepted, &termAt,
		&req.CancellationReason, &cancelledAt,
		&req.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return adoptions.Request{}, ErrNotFound
		}
		return adoptions.Request{}, err
	}

	req.Status = adoptions.Status(status)
	req.RespondedAt = fromNullTime(respondedAt)
	req.InterviewAt = fromNullTime(interviewAt)
	req.PickupAt = fromNullTime(pickupAt)
	req.TermAcceptedAt = fromNullTime(termAt)
	req.CancelledAt = fromNullTime(cancelledAt)
	return req, nil
}

func collectStats(rows *sql.Rows) (adoptions.Stats, error) {
	var st adoptions.Stats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return adoptions.Stats{}, err
		}
		st.Total += count
		switch adoptions.Status(status) {
		case adoptions.StatusPending:
			st.Pending = count
		case adoptions.StatusInInterview:
			st.InInterview = count
		case adoptions.StatusInterviewApproved:
			st.InterviewApproved = count
		case adoptions.StatusScheduled:
			st.Scheduled = count
		case adoptions.StatusCompleted:
			st.Completed = count
		case adoptions.StatusRejected, adoptions.StatusInterviewRejected:
			st.Rejected += count
		case adoptions.StatusCancelled:
			st.Cancelled = count
		}
	}
	return st, rows.Err()
}
