package postgres

import (
	"context"
	"database/sql"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) CreateAdopter(ctx context.Context, a profiles.Adopter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adopter_profiles (
			id, user_id, cpf, phone, address,
			latitude, longitude,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID, a.UserID, a.CPF, a.Phone, a.Address,
		toNullFloat(a.Latitude), toNullFloat(a.Longitude),
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) UpdateAdopter(ctx context.Context, a profiles.Adopter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adopter_profiles
		SET cpf = $2, phone = $3, address = $4,
			latitude = $5, longitude = $6, updated_at = $7
		WHERE id = $1
	`,
		a.ID, a.CPF, a.Phone, a.Address,
		toNullFloat(a.Latitude), toNullFloat(a.Longitude), a.UpdatedAt,
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

const adopterColumns = `
	id, user_id, cpf, phone, address,
	latitude, longitude,
	created_at, updated_at`

func (r *ProfilesRepo) GetAdopterByUserID(ctx context.Context, userID string) (profiles.Adopter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+adopterColumns+` FROM adopter_profiles WHERE user_id = $1`, userID)
	return scanAdopter(row)
}

func (r *ProfilesRepo) GetAdopterByID(ctx context.Context, id string) (profiles.Adopter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+adopterColumns+` FROM adopter_profiles WHERE id = $1`, id)
	return scanAdopter(row)
}

func (r *ProfilesRepo) GetAdopterByCPF(ctx context.Context, cpf string) (profiles.Adopter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+adopterColumns+` FROM adopter_profiles WHERE cpf = $1`, cpf)
	return scanAdopter(row)
}

func scanAdopter(row *sql.Row) (profiles.Adopter, error) {
	var a profiles.Adopter
	var lat, lon sql.NullFloat64
	if err := row.Scan(
		&a.ID, &a.UserID, &a.CPF, &a.Phone, &a.Address,
		&lat, &lon,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Adopter{}, ErrNotFound
		}
		return profiles.Adopter{}, err
	}
	a.Latitude = fromNullFloat(lat)
	a.Longitude = fromNullFloat(lon)
	return a, nil
}

func (r *ProfilesRepo) CreateOrganization(ctx context.Context, o profiles.Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organization_profiles (
			id, user_id, cnpj, trade_name, phone, address,
			latitude, longitude,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID, o.UserID, o.CNPJ, o.TradeName, o.Phone, o.Address,
		toNullFloat(o.Latitude), toNullFloat(o.Longitude),
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) UpdateOrganization(ctx context.Context, o profiles.Organization) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organization_profiles
		SET cnpj = $2, trade_name = $3, phone = $4, address = $5,
			latitude = $6, longitude = $7, updated_at = $8
		WHERE id = $1
	`,
		o.ID, o.CNPJ, o.TradeName, o.Phone, o.Address,
		toNullFloat(o.Latitude), toNullFloat(o.Longitude), o.UpdatedAt,
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

const organizationColumns = `
	id, user_id, cnpj, trade_name, phone, address,
	latitude, longitude,
	created_at, updated_at`

func (r *ProfilesRepo) GetOrganizationByUserID(ctx context.Context, userID string) (profiles.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+organizationColumns+` FROM organization_profiles WHERE user_id = $1`, userID)
	return scanOrganization(row)
}

func (r *ProfilesRepo) GetOrganizationByID(ctx context.Context, id string) (profiles.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+organizationColumns+` FROM organization_profiles WHERE id = $1`, id)
	return scanOrganization(row)
}

func (r *ProfilesRepo) GetOrganizationByCNPJ(ctx context.Context, cnpj string) (profiles.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+organizationColumns+` FROM organization_profiles WHERE cnpj = $1`, cnpj)
	return scanOrganization(row)
}

func scanOrganization(row *sql.Row) (profiles.Organization, error) {
	var o profiles.Organization
	var lat, lon sql.NullFloat64
	if err := row.Scan(
		&o.ID, &o.UserID, &o.CNPJ, &o.TradeName, &o.Phone, &o.Address,
		&lat, &lon,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Organization{}, ErrNotFound
		}
		return profiles.Organization{}, err
	}
	o.Latitude = fromNullFloat(lat)
	o.Longitude = fromNullFloat(lon)
	return o, nil
}
