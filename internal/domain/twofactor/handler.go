package twofactor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/auth"
)

// RegisterRoutes monta as rotas de segunda etapa. O token pendente emitido no
// login só passa nestas rotas; o gate de 2FA barra o resto.
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.Issuer) {
	r.Route("/2fa", func(tr chi.Router) {
		tr.Post("/setup", setupHandler(svc))
		tr.Post("/verify", verifyHandler(svc, issuer))
		tr.Post("/email-code", emailCodeHandler(svc))
		tr.Post("/backup-codes", backupCodesHandler(svc))
		tr.Post("/disable", disableHandler(svc))
		tr.Put("/preference", preferenceHandler(svc))
	})
}

type setupRequest struct {
	Method string `json:"method"`
}

type setupResponse struct {
	Method     string `json:"method"`
	Secret     string `json:"secret,omitempty"`
	OTPAuthURL string `json:"otpauth_url,omitempty"`
	QRCodePNG  string `json:"qr_code_png,omitempty"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type verifyResponse struct {
	Token      string    `json:"token"`
	Method     string    `json:"method"`
	VerifiedAt time.Time `json:"verified_at"`
}

type disableRequest struct {
	Password string `json:"password"`
}

type preferenceRequest struct {
	Method            string `json:"method"`
	RequireEveryLogin bool   `json:"require_every_login"`
}

type statusResponse struct {
	Enabled           bool       `json:"enabled"`
	Method            string     `json:"method"`
	RequireEveryLogin bool       `json:"require_every_login"`
	EnabledAt         *time.Time `json:"enabled_at,omitempty"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

func setupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req setupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Setup(r.Context(), userID, Method(req.Method))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, setupResponse{
			Method:     string(out.Method),
			Secret:     out.Secret,
			OTPAuthURL: out.OTPAuthURL,
			QRCodePNG:  out.QRCodePNG,
		})
	}
}

func verifyHandler(svc *Service, issuer auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Verify(r.Context(), claims.UserID, req.Code)
		if err != nil {
			writeError(w, err)
			return
		}

		// Token completo: sem a flag pendente, com o carimbo da verificação.
		verifiedAt := res.VerifiedAt
		token, err := issuer.Issue(r.Context(), auth.Claims{
			UserID:              claims.UserID,
			Email:               claims.Email,
			Role:                claims.Role,
			TwoFactorVerifiedAt: &verifiedAt,
			TwoFactorMethod:     string(res.Method),
			TwoFactorEveryLogin: res.RequireEveryLogin,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, verifyResponse{
			Token:      token,
			Method:     string(res.Method),
			VerifiedAt: res.VerifiedAt,
		})
	}
}

func emailCodeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if err := svc.SendEmailCode(r.Context(), userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "código enviado por e-mail"})
	}
}

func backupCodesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		codes, err := svc.GenerateBackupCodes(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"backup_codes": codes})
	}
}

func disableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req disableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Disable(r.Context(), userID, req.Password); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "segunda etapa desativada"})
	}
}

func preferenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req preferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.SetPreference(r.Context(), userID, Method(req.Method), req.RequireEveryLogin)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{
			Enabled:           st.Enabled,
			Method:            string(st.Method),
			RequireEveryLogin: st.RequireEveryLogin,
			EnabledAt:         st.EnabledAt,
			LastUsedAt:        st.LastUsedAt,
		})
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

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrWrongPassword):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
