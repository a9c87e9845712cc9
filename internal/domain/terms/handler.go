package terms

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
	r.Route("/terms", func(tr chi.Router) {
		tr.Get("/status", statusHandler(svc))
		tr.Post("/accept", acceptHandler(svc))
		tr.Post("/revoke", revokeHandler(svc))
	})
}

type acceptRequest struct {
	TermsOfUse bool   `json:"terms_of_use"`
	LGPD       bool   `json:"lgpd"`
	Version    string `json:"version"`
}

type acceptanceResponse struct {
	TermsOfUse bool       `json:"terms_of_use"`
	LGPD       bool       `json:"lgpd"`
	Version    string     `json:"version"`
	AcceptedAt time.Time  `json:"accepted_at"`
	Revoked    bool       `json:"revoked"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req acceptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Accept(r.Context(), userID, AcceptInput{
			TermsOfUse: req.TermsOfUse,
			LGPD:       req.LGPD,
			Version:    req.Version,
			IP:         clientIP(r),
			UserAgent:  r.UserAgent(),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		a, err := svc.Status(r.Context(), userID)
		if errors.Is(err, ErrNotFound) {
			// Sem registro: nada aceito ainda.
			writeJSON(w, http.StatusOK, acceptanceResponse{})
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		a, err := svc.Revoke(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// clientIP assume que o middleware RealIP já normalizou RemoteAddr.
func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrIncomplete):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(a Acceptance) acceptanceResponse {
	return acceptanceResponse{
		TermsOfUse: a.TermsOfUse,
		LGPD:       a.LGPD,
		Version:    a.Version,
		AcceptedAt: a.AcceptedAt,
		Revoked:    a.Revoked,
		RevokedAt:  a.RevokedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
