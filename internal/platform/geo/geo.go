package geo

import "math"

// earthRadiusKm raio médio da Terra em km.
const earthRadiusKm = 6371.0

// DefaultRadiusKm raio padrão para busca de pets próximos.
const DefaultRadiusKm = 50.0

// HaversineKm calcula a distância em km entre duas coordenadas (graus)
// usando a fórmula de Haversine.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ValidLatitude reporta se lat está em [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reporta se lon está em [-180, 180].
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
