package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/admin/audit", listHandler(svc))
}

type entryResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorEmail string    `json:"actor_email,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	RouteName  string    `json:"route_name,omitempty"`
	StatusCode int       `json:"status_code"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Params     string    `json:"params,omitempty"`
	Message    string    `json:"message,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleAdmin {
			http.Error(w, "admin only", http.StatusForbidden)
			return
		}

		q := r.URL.Query()
		f := Filter{
			ActorID:    q.Get("actor_id"),
			Method:     q.Get("method"),
			PathPrefix: q.Get("path"),
		}
		if v := q.Get("status"); v != "" {
			f.StatusCode, _ = strconv.Atoi(v)
		}
		if v := q.Get("since"); v != "" {
			since, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "since must be RFC3339", http.StatusBadRequest)
				return
			}
			f.Since = &since
		}
		f.Limit, _ = strconv.Atoi(q.Get("limit"))
		f.Offset, _ = strconv.Atoi(q.Get("offset"))

		items, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				ID:         e.ID,
				ActorID:    e.ActorID,
				ActorEmail: e.ActorEmail,
				Method:     e.Method,
				Path:       e.Path,
				RouteName:  e.RouteName,
				StatusCode: e.StatusCode,
				IP:         e.IP,
				UserAgent:  e.UserAgent,
				Params:     e.Params,
				Message:    e.Message,
				DurationMS: e.DurationMS,
				CreatedAt:  e.CreatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}
