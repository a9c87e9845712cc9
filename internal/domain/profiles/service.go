package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/brdoc"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/geo"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCPF       = errors.New("invalid cpf")
	ErrInvalidCNPJ      = errors.New("invalid cnpj")
	ErrNotFound         = errors.New("not found")
	ErrDocumentInUse    = errors.New("document already registered")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// maskedDocument é o marcador de documento removido por anonimização;
// atualizações de registros legados passam com ele.
const maskedDocument = "***"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type AdopterInput struct {
	CPF       string
	Phone     string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// UpsertAdopter cria ou atualiza o perfil de interessado do usuário.
// CPF novo ou trocado passa pela validação estrita de dígitos verificadores;
// manter o documento já gravado exige só a checagem fraca, porque registros
// legados podem ser anteriores à validação estrita. O marcador de
// anonimização preserva o que está gravado.
func (s *Service) UpsertAdopter(ctx context.Context, userID string, in AdopterInput) (Adopter, error) {
	if strings.TrimSpace(userID) == "" {
		return Adopter{}, ErrInvalidInput
	}
	if err := validateCoords(in.Latitude, in.Longitude); err != nil {
		return Adopter{}, err
	}

	cpf := strings.TrimSpace(in.CPF)
	if cpf != maskedDocument {
		cpf = brdoc.OnlyDigits(cpf)
	}

	now := s.now()

	existing, err := s.repo.GetAdopterByUserID(ctx, userID)
	if err == nil {
		switch {
		case cpf == maskedDocument:
			// anonimizado: mantém o CPF gravado
		case cpf == existing.CPF:
			if !brdoc.PlausibleCPF(cpf) {
				return Adopter{}, ErrInvalidCPF
			}
		default:
			if !brdoc.ValidateCPF(cpf) {
				return Adopter{}, ErrInvalidCPF
			}
			if other, err := s.repo.GetAdopterByCPF(ctx, cpf); err == nil && other.UserID != userID {
				return Adopter{}, ErrDocumentInUse
			}
			existing.CPF = cpf
		}
		existing.Phone = strings.TrimSpace(in.Phone)
		existing.Address = strings.TrimSpace(in.Address)
		existing.Latitude = in.Latitude
		existing.Longitude = in.Longitude
		existing.UpdatedAt = now

		if err := s.repo.UpdateAdopter(ctx, existing); err != nil {
			return Adopter{}, err
		}
		return existing, nil
	}

	if cpf == maskedDocument || !brdoc.ValidateCPF(cpf) {
		return Adopter{}, ErrInvalidCPF
	}
	if other, err := s.repo.GetAdopterByCPF(ctx, cpf); err == nil && other.UserID != userID {
		return Adopter{}, ErrDocumentInUse
	}

	a := Adopter{
		ID:        uuid.NewString(),
		UserID:    userID,
		CPF:       cpf,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateAdopter(ctx, a); err != nil {
		return Adopter{}, err
	}
	return a, nil
}

type OrganizationInput struct {
	CNPJ      string
	TradeName string
	Phone     string
	Address   string
	Latitude  *float64
	Longitude *float64
}

func (s *Service) UpsertOrganization(ctx context.Context, userID string, in OrganizationInput) (Organization, error) {
	if strings.TrimSpace(userID) == "" {
		return Organization{}, ErrInvalidInput
	}
	if err := validateCoords(in.Latitude, in.Longitude); err != nil {
		return Organization{}, err
	}

	cnpj := brdoc.OnlyDigits(in.CNPJ)

	now := s.now()

	existing, err := s.repo.GetOrganizationByUserID(ctx, userID)
	if err == nil {
		if cnpj != existing.CNPJ {
			if !brdoc.ValidateCNPJ(cnpj) {
				return Organization{}, ErrInvalidCNPJ
			}
			if other, err := s.repo.GetOrganizationByCNPJ(ctx, cnpj); err == nil && other.UserID != userID {
				return Organization{}, ErrDocumentInUse
			}
			existing.CNPJ = cnpj
		} else if !brdoc.PlausibleCNPJ(cnpj) {
			// registro legado: manter o mesmo documento pede só a checagem fraca
			return Organization{}, ErrInvalidCNPJ
		}
		existing.TradeName = strings.TrimSpace(in.TradeName)
		existing.Phone = strings.TrimSpace(in.Phone)
		existing.Address = strings.TrimSpace(in.Address)
		existing.Latitude = in.Latitude
		existing.Longitude = in.Longitude
		existing.UpdatedAt = now

		if err := s.repo.UpdateOrganization(ctx, existing); err != nil {
			return Organization{}, err
		}
		return existing, nil
	}

	if !brdoc.ValidateCNPJ(cnpj) {
		return Organization{}, ErrInvalidCNPJ
	}
	if other, err := s.repo.GetOrganizationByCNPJ(ctx, cnpj); err == nil && other.UserID != userID {
		return Organization{}, ErrDocumentInUse
	}

	o := Organization{
		ID:        uuid.NewString(),
		UserID:    userID,
		CNPJ:      cnpj,
		TradeName: strings.TrimSpace(in.TradeName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateOrganization(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

func (s *Service) GetAdopterByUserID(ctx context.Context, userID string) (Adopter, error) {
	a, err := s.repo.GetAdopterByUserID(ctx, userID)
	if err != nil {
		return Adopter{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) GetAdopterByID(ctx context.Context, id string) (Adopter, error) {
	a, err := s.repo.GetAdopterByID(ctx, id)
	if err != nil {
		return Adopter{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) GetOrganizationByUserID(ctx context.Context, userID string) (Organization, error) {
	o, err := s.repo.GetOrganizationByUserID(ctx, userID)
	if err != nil {
		return Organization{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) GetOrganizationByID(ctx context.Context, id string) (Organization, error) {
	o, err := s.repo.GetOrganizationByID(ctx, id)
	if err != nil {
		return Organization{}, ErrNotFound
	}
	return o, nil
}

// Scrub apaga dados pessoais do perfil de interessado (anonimização LGPD).
// Sem perfil vinculado não é erro.
func (s *Service) Scrub(ctx context.Context, userID string) error {
	a, err := s.repo.GetAdopterByUserID(ctx, userID)
	if err != nil {
		return nil
	}

	a.CPF = ""
	a.Phone = ""
	a.Address = ""
	a.Latitude = nil
	a.Longitude = nil
	a.UpdatedAt = s.now()

	return s.repo.UpdateAdopter(ctx, a)
}

func validateCoords(lat, lon *float64) error {
	if lat != nil && !geo.ValidLatitude(*lat) {
		return ErrInvalidLatitude
	}
	if lon != nil && !geo.ValidLongitude(*lon) {
		return ErrInvalidLongitude
	}
	return nil
}
