package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.Issuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc, issuer))
		ar.Post("/password-reset", passwordResetHandler(svc))
		ar.Post("/password-reset/confirm", passwordResetConfirmHandler(svc))
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"` // adopter | organization
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
			Role:     auth.Role(req.Role),
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicateEmail):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token             string       `json:"token"`
	TwoFactorRequired bool         `json:"two_factor_required"`
	User              userResponse `json:"user"`
}

func loginHandler(svc *Service, issuer auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrBlocked):
				http.Error(w, "account temporarily blocked, try again later", http.StatusLocked)
			default:
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
			}
			return
		}

		claims := auth.Claims{
			UserID:           res.User.ID,
			Email:            res.User.Email,
			Role:             res.User.Role,
			TwoFactorPending: res.TwoFactorRequired,
		}
		token, err := issuer.Issue(r.Context(), claims)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:             token,
			TwoFactorRequired: res.TwoFactorRequired,
			User:              toUserResponse(res.User),
		})
	}
}

func passwordResetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Resposta idêntica com e-mail conhecido ou não.
		writeJSON(w, http.StatusOK, map[string]string{"message": "if the email exists, a reset code was sent"})
	}
}

func passwordResetConfirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, ErrInvalidResetToken):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "password too short", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
