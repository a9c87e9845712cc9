package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, organization_id,
	name, species, breed, age_months, sex, size, color, weight_kg,
	neutered, vaccinated, dewormed, docile, playful, calm,
	description, special_care, photo_url, emoji,
	latitude, longitude,
	status, adopted_by_id, adopted_at,
	lifecycle, archived_at,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, organization_id,
			name, species, breed, age_months, sex, size, color, weight_kg,
			neutered, vaccinated, dewormed, docile, playful, calm,
			description, special_care, photo_url, emoji,
			latitude, longitude,
			status, adopted_by_id, adopted_at,
			lifecycle, archived_at,
			created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,
			$17,$18,$19,$20,
			$21,$22,
			$23,$24,$25,
			$26,$27,
			$28,$29
		)
	`,
		p.ID, p.OrganizationID,
		p.Name, string(p.Species), p.Breed, p.AgeMonths, string(p.Sex), string(p.Size), p.Color, toNullFloat(p.WeightKg),
		p.Neutered, p.Vaccinated, p.Dewormed, p.Docile, p.Playful, p.Calm,
		p.Description, p.SpecialCare, p.PhotoURL, p.Emoji,
		toNullFloat(p.Latitude), toNullFloat(p.Longitude),
		string(p.Status), toNullString(p.AdoptedByID), toNullTime(p.AdoptedAt),
		string(p.Lifecycle), toNullTime(p.ArchivedAt),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, petUpdateSQL, petUpdateArgs(p)...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const petUpdateSQL = `
	UPDATE pets
	SET
		name = $2, species = $3, breed = $4, age_months = $5, sex = $6,
		size = $7, color = $8, weight_kg = $9,
		neutered = $10, vaccinated = $11, dewormed = $12,
		docile = $13, playful = $14, calm = $15,
		description = $16, special_care = $17, photo_url = $18, emoji = $19,
		latitude = $20, longitude = $21,
		status = $22, adopted_by_id = $23, adopted_at = $24,
		lifecycle = $25, archived_at = $26,
		updated_at = $27
	WHERE id = $1`

func petUpdateArgs(p pets.Pet) []any {
	return []any{
		p.ID,
		p.Name, string(p.Species), p.Breed, p.AgeMonths, string(p.Sex),
		string(p.Size), p.Color, toNullFloat(p.WeightKg),
		p.Neutered, p.Vaccinated, p.Dewormed,
		p.Docile, p.Playful, p.Calm,
		p.Description, p.SpecialCare, p.PhotoURL, p.Emoji,
		toNullFloat(p.Latitude), toNullFloat(p.Longitude),
		string(p.Status), toNullString(p.AdoptedByID), toNullTime(p.AdoptedAt),
		string(p.Lifecycle), toNullTime(p.ArchivedAt),
		p.UpdatedAt,
	}
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT`+petColumns+` FROM pets WHERE id = $1`, id)
	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if !f.IncludeArchived {
		add("lifecycle = $%d", string(pets.LifecycleActive))
	}
	if f.Species != "" {
		add("species = $%d", string(f.Species))
	}
	if f.Size != "" {
		add("size = $%d", string(f.Size))
	}
	if f.Sex != "" {
		add("sex = $%d", string(f.Sex))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.OrganizationID != "" {
		add("organization_id = $%d", f.OrganizationID)
	}

	query := `SELECT` + petColumns + ` FROM pets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) ListAdoptedBy(ctx context.Context, adopterID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+petColumns+`
		FROM pets
		WHERE adopted_by_id = $1 AND status = $2
		ORDER BY adopted_at DESC
	`, adopterID, string(pets.StatusAdopted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species, sex, size, status, lifecycle string
	var weight, lat, lon sql.NullFloat64
	var adoptedBy sql.NullString
	var adoptedAt, archivedAt sql.NullTime

	if err := row.Scan(
		&p.ID, &p.OrganizationID,
		&p.Name, &species, &p.Breed, &p.AgeMonths, &sex, &size, &p.Color, &weight,
		&p.Neutered, &p.Vaccinated, &p.Dewormed, &p.Docile, &p.Playful, &p.Calm,
		&p.Description, &p.SpecialCare, &p.PhotoURL, &p.Emoji,
		&lat, &lon,
		&status, &adoptedBy, &adoptedAt,
		&lifecycle, &archivedAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	p.Size = pets.Size(size)
	p.Status = pets.Status(status)
	p.Lifecycle = pets.Lifecycle(lifecycle)
	p.WeightKg = fromNullFloat(weight)
	p.Latitude = fromNullFloat(lat)
	p.Longitude = fromNullFloat(lon)
	p.AdoptedByID = fromNullString(adoptedBy)
	p.AdoptedAt = fromNullTime(adoptedAt)
	p.ArchivedAt = fromNullTime(archivedAt)
	return p, nil
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
