package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/adopter", getAdopterHandler(svc))
		pr.Put("/adopter", upsertAdopterHandler(svc))
		pr.Get("/organization", getOrganizationHandler(svc))
		pr.Put("/organization", upsertOrganizationHandler(svc))
	})
}

type adopterRequest struct {
	CPF       string   `json:"cpf"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type adopterResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type organizationRequest struct {
	CNPJ      string   `json:"cnpj"`
	TradeName string   `json:"trade_name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type organizationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CNPJ      string    `json:"cnpj"`
	TradeName string    `json:"trade_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func upsertAdopterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req adopterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpsertAdopter(r.Context(), claims.UserID, AdopterInput{
			CPF:       req.CPF,
			Phone:     req.Phone,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdopterResponse(a))
	}
}

func getAdopterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetAdopterByUserID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAdopterResponse(a))
	}
}

func upsertOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req organizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.UpsertOrganization(r.Context(), claims.UserID, OrganizationInput{
			CNPJ:      req.CNPJ,
			TradeName: req.TradeName,
			Phone:     req.Phone,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

func getOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, err := svc.GetOrganizationByUserID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCPF), errors.Is(err, ErrInvalidCNPJ),
		errors.Is(err, ErrInvalidLatitude), errors.Is(err, ErrInvalidLongitude),
		errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDocumentInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAdopterResponse(a Adopter) adopterResponse {
	return adopterResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		CPF:       maskCPF(a.CPF),
		Phone:     a.Phone,
		Address:   a.Address,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toOrganizationResponse(o Organization) organizationResponse {
	return organizationResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		CNPJ:      o.CNPJ,
		TradeName: o.TradeName,
		Phone:     o.Phone,
		Address:   o.Address,
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// maskCPF devolve o CPF parcialmente oculto (***.XXX.XXX-**) para exibição.
func maskCPF(cpf string) string {
	if len(cpf) != 11 {
		return cpf
	}
	return "***." + cpf[3:6] + "." + cpf[6:9] + "-**"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
