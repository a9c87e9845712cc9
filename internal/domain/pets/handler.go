package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/profiles"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Route("/pets", func(pr chi.Router) {
		// Catálogo público.
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/nearby", nearbyHandler(svc))
		pr.Get("/map", mapDataHandler(svc))
		pr.Get("/emoji", emojiHandler())
		pr.Get("/{petID}", getPetHandler(svc))

		// Gestão pelo local de adoção.
		pr.Post("/", createPetHandler(svc, profilesSvc))
		pr.Patch("/{petID}", updatePetHandler(svc, profilesSvc))
		pr.Delete("/{petID}", archivePetHandler(svc, profilesSvc))
		pr.Post("/{petID}/restore", restorePetHandler(svc, profilesSvc))
	})

	r.Get("/me/adopted-pets", adoptedPetsHandler(svc, profilesSvc))
}

type petRequest struct {
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	AgeMonths int      `json:"age_months"`
	Sex       string   `json:"sex"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	WeightKg  *float64 `json:"weight_kg"`

	Neutered   bool `json:"neutered"`
	Vaccinated bool `json:"vaccinated"`
	Dewormed   bool `json:"dewormed"`
	Docile     bool `json:"docile"`
	Playful    bool `json:"playful"`
	Calm       bool `json:"calm"`

	Description string `json:"description"`
	SpecialCare string `json:"special_care"`
	PhotoURL    string `json:"photo_url"`
	Emoji       string `json:"emoji"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type petPatchRequest struct {
	Name        *string  `json:"name"`
	Breed       *string  `json:"breed"`
	AgeMonths   *int     `json:"age_months"`
	Color       *string  `json:"color"`
	WeightKg    *float64 `json:"weight_kg"`
	Description *string  `json:"description"`
	SpecialCare *string  `json:"special_care"`
	PhotoURL    *string  `json:"photo_url"`
	Emoji       *string  `json:"emoji"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	Neutered   *bool `json:"neutered"`
	Vaccinated *bool `json:"vaccinated"`
	Dewormed   *bool `json:"dewormed"`
	Docile     *bool `json:"docile"`
	Playful    *bool `json:"playful"`
	Calm       *bool `json:"calm"`
}

type petResponse struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	Species        string   `json:"species"`
	Breed          string   `json:"breed"`
	AgeMonths      int      `json:"age_months"`
	Sex            string   `json:"sex"`
	Size           string   `json:"size"`
	Color          string   `json:"color"`
	WeightKg       *float64 `json:"weight_kg,omitempty"`

	Neutered   bool `json:"neutered"`
	Vaccinated bool `json:"vaccinated"`
	Dewormed   bool `json:"dewormed"`
	Docile     bool `json:"docile"`
	Playful    bool `json:"playful"`
	Calm       bool `json:"calm"`

	Description string `json:"description"`
	SpecialCare string `json:"special_care,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Emoji       string `json:"emoji"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Status    string     `json:"status"`
	Lifecycle string     `json:"lifecycle"`
	AdoptedAt *time.Time `json:"adopted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type nearbyResponse struct {
	Pet        petResponse `json:"pet"`
	DistanceKm float64     `json:"distance_km"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		items, err := svc.List(r.Context(), Filter{
			Species: Species(q.Get("species")),
			Size:    Size(q.Get("size")),
			Sex:     Sex(q.Get("sex")),
			Status:  Status(q.Get("status")),
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func nearbyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") == "" || q.Get("lon") == "" {
			http.Error(w, "lat and lon are required", http.StatusBadRequest)
			return
		}

		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "lat and lon must be numbers", http.StatusBadRequest)
			return
		}

		radius := 0.0
		if v := q.Get("radius_km"); v != "" {
			radius, err1 = strconv.ParseFloat(v, 64)
			if err1 != nil {
				http.Error(w, "radius_km must be a number", http.StatusBadRequest)
				return
			}
		}

		items, err := svc.ListNearby(r.Context(), lat, lon, radius)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "coordinates out of range", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]nearbyResponse, 0, len(items))
		for _, np := range items {
			out = append(out, nearbyResponse{Pet: toPetResponse(np.Pet), DistanceKm: np.DistanceKm})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func mapDataHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := svc.MapData(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}

func emojiHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		species := r.URL.Query().Get("species")
		if species == "" {
			http.Error(w, "species is required", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"emoji": SuggestEmoji(Species(species))})
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func createPetHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), org.ID, CreateInput{
			Name:        req.Name,
			Species:     Species(req.Species),
			Breed:       req.Breed,
			AgeMonths:   req.AgeMonths,
			Sex:         Sex(req.Sex),
			Size:        Size(req.Size),
			Color:       req.Color,
			WeightKg:    req.WeightKg,
			Neutered:    req.Neutered,
			Vaccinated:  req.Vaccinated,
			Dewormed:    req.Dewormed,
			Docile:      req.Docile,
			Playful:     req.Playful,
			Calm:        req.Calm,
			Description: req.Description,
			SpecialCare: req.SpecialCare,
			PhotoURL:    req.PhotoURL,
			Emoji:       req.Emoji,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req petPatchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), org.ID, UpdateInput{
			Name:        req.Name,
			Breed:       req.Breed,
			AgeMonths:   req.AgeMonths,
			Color:       req.Color,
			WeightKg:    req.WeightKg,
			Description: req.Description,
			SpecialCare: req.SpecialCare,
			PhotoURL:    req.PhotoURL,
			Emoji:       req.Emoji,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Neutered:    req.Neutered,
			Vaccinated:  req.Vaccinated,
			Dewormed:    req.Dewormed,
			Docile:      req.Docile,
			Playful:     req.Playful,
			Calm:        req.Calm,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func archivePetHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		p, err := svc.Archive(r.Context(), chi.URLParam(r, "petID"), org.ID)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func restorePetHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		p, err := svc.Restore(r.Context(), chi.URLParam(r, "petID"), org.ID)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func adoptedPetsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		adopter, err := profilesSvc.GetAdopterByUserID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "adopter profile required", http.StatusForbidden)
			return
		}

		items, err := svc.ListAdoptedBy(r.Context(), adopter.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// requireOrganization resolve o perfil de organização do usuário autenticado.
func requireOrganization(w http.ResponseWriter, r *http.Request, profilesSvc *profiles.Service) (profiles.Organization, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return profiles.Organization{}, false
	}

	org, err := profilesSvc.GetOrganizationByUserID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "organization profile required", http.StatusForbidden)
		return profiles.Organization{}, false
	}
	return org, true
}

func writePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Species:        string(p.Species),
		Breed:          p.Breed,
		AgeMonths:      p.AgeMonths,
		Sex:            string(p.Sex),
		Size:           string(p.Size),
		Color:          p.Color,
		WeightKg:       p.WeightKg,
		Neutered:       p.Neutered,
		Vaccinated:     p.Vaccinated,
		Dewormed:       p.Dewormed,
		Docile:         p.Docile,
		Playful:        p.Playful,
		Calm:           p.Calm,
		Description:    p.Description,
		SpecialCare:    p.SpecialCare,
		PhotoURL:       p.PhotoURL,
		Emoji:          p.Emoji,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Status:         string(p.Status),
		Lifecycle:      string(p.Lifecycle),
		AdoptedAt:      p.AdoptedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
