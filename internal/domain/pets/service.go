package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/geo"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// speciesEmoji é a tabela local de sugestão (a API externa de emoji ficou de
// fora; ver config do produto).
var speciesEmoji = map[Species]string{
	SpeciesDog:     "🐕",
	SpeciesCat:     "🐈",
	SpeciesRabbit:  "🐇",
	SpeciesBird:    "🐦",
	SpeciesHamster: "🐹",
	SpeciesOther:   "🐾",
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Name      string
	Species   Species
	Breed     string
	AgeMonths int
	Sex       Sex
	Size      Size
	Color     string
	WeightKg  *float64

	Neutered   bool
	Vaccinated bool
	Dewormed   bool
	Docile     bool
	Playful    bool
	Calm       bool

	Description string
	SpecialCare string
	PhotoURL    string
	Emoji       string

	Latitude  *float64
	Longitude *float64
}

func (s *Service) Create(ctx context.Context, organizationID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(organizationID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return Pet{}, ErrInvalidInput
	}
	if !validSpecies(in.Species) || !validSex(in.Sex) || !validSize(in.Size) {
		return Pet{}, ErrInvalidInput
	}
	if in.AgeMonths < 0 {
		return Pet{}, ErrInvalidInput
	}
	if err := validateCoords(in.Latitude, in.Longitude); err != nil {
		return Pet{}, err
	}

	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = SuggestEmoji(in.Species)
	}

	now := s.now()
	p := Pet{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(in.Name),
		Species:        in.Species,
		Breed:          strings.TrimSpace(in.Breed),
		AgeMonths:      in.AgeMonths,
		Sex:            in.Sex,
		Size:           in.Size,
		Color:          strings.TrimSpace(in.Color),
		WeightKg:       in.WeightKg,
		Neutered:       in.Neutered,
		Vaccinated:     in.Vaccinated,
		Dewormed:       in.Dewormed,
		Docile:         in.Docile,
		Playful:        in.Playful,
		Calm:           in.Calm,
		Description:    strings.TrimSpace(in.Description),
		SpecialCare:    strings.TrimSpace(in.SpecialCare),
		PhotoURL:       strings.TrimSpace(in.PhotoURL),
		Emoji:          emoji,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Status:         StatusAvailable,
		Lifecycle:      LifecycleActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

type UpdateInput struct {
	// Ponteiros para PATCH real: nil = não tocar.
	Name        *string
	Breed       *string
	AgeMonths   *int
	Color       *string
	WeightKg    *float64
	Description *string
	SpecialCare *string
	PhotoURL    *string
	Emoji       *string
	Latitude    *float64
	Longitude   *float64

	Neutered   *bool
	Vaccinated *bool
	Dewormed   *bool
	Docile     *bool
	Playful    *bool
	Calm       *bool
}

func (s *Service) Update(ctx context.Context, petID, organizationID string, in UpdateInput) (Pet, error) {
	p, err := s.ownedPet(ctx, petID, organizationID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.AgeMonths != nil {
		if *in.AgeMonths < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.AgeMonths = *in.AgeMonths
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.WeightKg != nil {
		p.WeightKg = in.WeightKg
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.SpecialCare != nil {
		p.SpecialCare = strings.TrimSpace(*in.SpecialCare)
	}
	if in.PhotoURL != nil {
		p.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Emoji != nil {
		p.Emoji = strings.TrimSpace(*in.Emoji)
	}
	if in.Latitude != nil || in.Longitude != nil {
		if err := validateCoords(in.Latitude, in.Longitude); err != nil {
			return Pet{}, err
		}
		if in.Latitude != nil {
			p.Latitude = in.Latitude
		}
		if in.Longitude != nil {
			p.Longitude = in.Longitude
		}
	}

	if in.Neutered != nil {
		p.Neutered = *in.Neutered
	}
	if in.Vaccinated != nil {
		p.Vaccinated = *in.Vaccinated
	}
	if in.Dewormed != nil {
		p.Dewormed = *in.Dewormed
	}
	if in.Docile != nil {
		p.Docile = *in.Docile
	}
	if in.Playful != nil {
		p.Playful = *in.Playful
	}
	if in.Calm != nil {
		p.Calm = *in.Calm
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pet, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.List(ctx, f)
}

func (s *Service) ListAdoptedBy(ctx context.Context, adopterID string) ([]Pet, error) {
	if strings.TrimSpace(adopterID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListAdoptedBy(ctx, adopterID)
}

// Archive oculta o pet das listagens mantendo dados e vínculos.
// Idempotente.
func (s *Service) Archive(ctx context.Context, petID, organizationID string) (Pet, error) {
	p, err := s.ownedPet(ctx, petID, organizationID)
	if err != nil {
		return Pet{}, err
	}
	if p.Lifecycle == LifecycleArchived {
		return p, nil
	}

	now := s.now()
	p.Lifecycle = LifecycleArchived
	p.ArchivedAt = &now
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Restore(ctx context.Context, petID, organizationID string) (Pet, error) {
	p, err := s.ownedPet(ctx, petID, organizationID)
	if err != nil {
		return Pet{}, err
	}
	if p.Lifecycle == LifecycleActive {
		return p, nil
	}

	p.Lifecycle = LifecycleActive
	p.ArchivedAt = nil
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// NearbyPet é um pet disponível anotado com a distância até o ponto de busca.
type NearbyPet struct {
	Pet        Pet
	DistanceKm float64
}

// ListNearby devolve pets disponíveis com coordenadas dentro de radiusKm,
// ordenados por distância crescente. radiusKm <= 0 usa o raio padrão (50 km).
func (s *Service) ListNearby(ctx context.Context, lat, lon, radiusKm float64) ([]NearbyPet, error) {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lon) {
		return nil, ErrInvalidInput
	}
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}

	available, err := s.repo.List(ctx, Filter{Status: StatusAvailable, Limit: 1000})
	if err != nil {
		return nil, err
	}

	out := make([]NearbyPet, 0)
	for _, p := range available {
		if !p.HasCoordinates() {
			continue
		}
		d := geo.HaversineKm(lat, lon, *p.Latitude, *p.Longitude)
		if d > radiusKm {
			continue
		}
		out = append(out, NearbyPet{Pet: p, DistanceKm: d})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// MapPoint é o dado mínimo para plotar um pet no mapa.
type MapPoint struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Emoji     string  `json:"emoji"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapData lista os pets disponíveis com coordenadas.
func (s *Service) MapData(ctx context.Context) ([]MapPoint, error) {
	available, err := s.repo.List(ctx, Filter{Status: StatusAvailable, Limit: 1000})
	if err != nil {
		return nil, err
	}

	out := make([]MapPoint, 0)
	for _, p := range available {
		if !p.HasCoordinates() {
			continue
		}
		out = append(out, MapPoint{
			ID:        p.ID,
			Name:      p.Name,
			Emoji:     p.Emoji,
			Latitude:  *p.Latitude,
			Longitude: *p.Longitude,
		})
	}
	return out, nil
}

// SuggestEmoji devolve o emoji padrão da espécie.
func SuggestEmoji(species Species) string {
	if e, ok := speciesEmoji[species]; ok {
		return e
	}
	return speciesEmoji[SpeciesOther]
}

func (s *Service) ownedPet(ctx context.Context, petID, organizationID string) (Pet, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(organizationID) == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if p.OrganizationID != organizationID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func validSpecies(v Species) bool {
	switch v {
	case SpeciesDog, SpeciesCat, SpeciesRabbit, SpeciesBird, SpeciesHamster, SpeciesOther:
		return true
	}
	return false
}

func validSex(v Sex) bool {
	return v == SexMale || v == SexFemale
}

func validSize(v Size) bool {
	switch v {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func validateCoords(lat, lon *float64) error {
	if lat != nil && !geo.ValidLatitude(*lat) {
		return ErrInvalidInput
	}
	if lon != nil && !geo.ValidLongitude(*lon) {
		return ErrInvalidInput
	}
	return nil
}
