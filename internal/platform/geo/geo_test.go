package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_Identity(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{-23.5505, -46.6333}, // São Paulo
		{90, 0},
		{-90, 180},
	}
	for _, c := range coords {
		if d := HaversineKm(c[0], c[1], c[0], c[1]); d != 0 {
			t.Errorf("HaversineKm(%v,%v, mesmo ponto) = %v, esperado 0", c[0], c[1], d)
		}
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	// São Paulo <-> Rio de Janeiro
	ab := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
	ba := HaversineKm(-22.9068, -43.1729, -23.5505, -46.6333)
	if ab != ba {
		t.Fatalf("distância não simétrica: %v vs %v", ab, ba)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// SP -> RJ fica em torno de 360 km em linha reta.
	d := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
	if d < 350 || d > 370 {
		t.Fatalf("SP->RJ = %v km, esperado ~360", d)
	}
}

func TestHaversineKm_SmallDistancePrecision(t *testing.T) {
	// Dois pontos a ~1.11 km (0.01 grau de latitude).
	d := HaversineKm(-23.55, -46.63, -23.56, -46.63)
	if math.Abs(d-1.112) > 0.01 {
		t.Fatalf("distância de 0.01 grau de latitude = %v km, esperado ~1.112", d)
	}
}

func TestValidCoordinates(t *testing.T) {
	if !ValidLatitude(-90) || !ValidLatitude(90) || ValidLatitude(90.1) || ValidLatitude(-91) {
		t.Error("ValidLatitude com limites errados")
	}
	if !ValidLongitude(-180) || !ValidLongitude(180) || ValidLongitude(180.5) || ValidLongitude(-181) {
		t.Error("ValidLongitude com limites errados")
	}
}
