package profiles

import "time"

// Adopter é o perfil de interessado em adoção vinculado a um usuário.
type Adopter struct {
	ID     string
	UserID string

	CPF     string // só dígitos; vazio após anonimização
	Phone   string
	Address string

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Organization é o perfil de local de adoção.
type Organization struct {
	ID     string
	UserID string

	CNPJ      string // só dígitos
	TradeName string
	Phone     string
	Address   string

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
