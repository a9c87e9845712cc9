package pets

import "time"

// Species define as espécies suportadas.
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesRabbit  Species = "rabbit"
	SpeciesBird    Species = "bird"
	SpeciesHamster Species = "hamster"
	SpeciesOther   Species = "other"
)

// Size porte do pet.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sex sexo do pet.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Status de adoção. Muda só pelo fluxo de solicitações: reserved e adopted
// nunca são gravados direto pelo catálogo.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusAdopted   Status = "adopted"
)

// Lifecycle substitui o soft delete por booleano: um pet arquivado some das
// listagens mas mantém histórico e vínculos.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleArchived Lifecycle = "archived"
)

// Pet é um animal cadastrado por um local de adoção.
type Pet struct {
	ID             string
	OrganizationID string

	Name      string
	Species   Species
	Breed     string
	AgeMonths int
	Sex       Sex
	Size      Size
	Color     string
	WeightKg  *float64

	// Flags médicas e de temperamento.
	Neutered   bool
	Vaccinated bool
	Dewormed   bool
	Docile     bool
	Playful    bool
	Calm       bool

	Description string
	SpecialCare string

	PhotoURL string
	Emoji    string

	Latitude  *float64
	Longitude *float64

	Status      Status
	AdoptedByID *string // perfil de interessado, quando reservado/adotado
	AdoptedAt   *time.Time

	Lifecycle  Lifecycle
	ArchivedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCoordinates reporta se o pet tem localização própria.
func (p Pet) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
