package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/domain/profiles"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Post("/pets/{petID}/requests", submitHandler(svc, profilesSvc))
	r.Get("/me/requests", myRequestsHandler(svc, profilesSvc))

	r.Route("/org", func(or chi.Router) {
		or.Get("/requests", orgRequestsHandler(svc, profilesSvc))
		or.Get("/requests/stats", orgStatsHandler(svc, profilesSvc))
		or.Get("/pets/{petID}/history", petHistoryHandler(svc, profilesSvc))
	})

	r.Route("/requests/{requestID}", func(rr chi.Router) {
		// Ações do local de adoção.
		rr.Post("/interview", scheduleInterviewHandler(svc, profilesSvc))
		rr.Post("/interview/result", interviewResultHandler(svc, profilesSvc))
		rr.Post("/pickup", schedulePickupHandler(svc, profilesSvc))
		rr.Post("/confirm", confirmHandler(svc, profilesSvc))
		rr.Post("/respond", respondHandler(svc, profilesSvc))

		// Ações do interessado.
		rr.Post("/term", acceptTermHandler(svc, profilesSvc))
		rr.Post("/cancel", cancelHandler(svc, profilesSvc))
	})
}

type submitRequest struct {
	Motive     string `json:"motive"`
	Experience string `json:"experience"`
	Housing    string `json:"housing"`
}

type scheduleRequest struct {
	At       time.Time `json:"at"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
}

type interviewResultRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}

type respondRequest struct {
	Approve  bool   `json:"approve"`
	Response string `json:"response"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type requestResponse struct {
	ID        string `json:"id"`
	PetID     string `json:"pet_id"`
	AdopterID string `json:"adopter_id"`

	Motive     string `json:"motive"`
	Experience string `json:"experience"`
	Housing    string `json:"housing"`

	Status string `json:"status"`

	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	Response    string     `json:"response,omitempty"`

	InterviewAt       *time.Time `json:"interview_at,omitempty"`
	InterviewLocation string     `json:"interview_location,omitempty"`
	InterviewNotes    string     `json:"interview_notes,omitempty"`

	PickupAt    *time.Time `json:"pickup_at,omitempty"`
	PickupNotes string     `json:"pickup_notes,omitempty"`

	TermAccepted   bool       `json:"term_accepted"`
	TermAcceptedAt *time.Time `json:"term_accepted_at,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

type petHistoryResponse struct {
	Requests []requestResponse `json:"requests"`
	Stats    Stats             `json:"stats"`
}

func submitHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adopter, ok := requireAdopter(w, r, profilesSvc)
		if !ok {
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Submit(r.Context(), chi.URLParam(r, "petID"), adopter.ID, SubmitInput{
			Motive:     req.Motive,
			Experience: req.Experience,
			Housing:    req.Housing,
		})
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestResponse(out))
	}
}

func myRequestsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adopter, ok := requireAdopter(w, r, profilesSvc)
		if !ok {
			return
		}

		items, err := svc.ListByAdopter(r.Context(), adopter.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

func orgRequestsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		items, err := svc.ListByOrganization(r.Context(), org.ID, Status(r.URL.Query().Get("status")))
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

func orgStatsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		stats, err := svc.OrganizationStats(r.Context(), org.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func petHistoryHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		items, stats, err := svc.PetHistory(r.Context(), chi.URLParam(r, "petID"), org.ID)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, petHistoryResponse{Requests: toRequestResponses(items), Stats: stats})
	}
}

func scheduleInterviewHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.ScheduleInterview(r.Context(), chi.URLParam(r, "requestID"), org.ID, req.At, req.Location, req.Notes)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func interviewResultHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req interviewResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.ResolveInterview(r.Context(), chi.URLParam(r, "requestID"), org.ID, req.Approved, req.Notes)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func schedulePickupHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.SchedulePickup(r.Context(), chi.URLParam(r, "requestID"), org.ID, req.At, req.Notes)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func confirmHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		out, err := svc.ConfirmCompletion(r.Context(), chi.URLParam(r, "requestID"), org.ID)
		if errors.Is(err, ErrAlreadyCompleted) {
			// Chamada repetida não é erro: devolve o estado atual.
			writeJSON(w, http.StatusOK, toRequestResponse(out))
			return
		}
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func respondHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := requireOrganization(w, r, profilesSvc)
		if !ok {
			return
		}

		var req respondRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Respond(r.Context(), chi.URLParam(r, "requestID"), org.ID, req.Approve, req.Response)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func acceptTermHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adopter, ok := requireAdopter(w, r, profilesSvc)
		if !ok {
			return
		}

		out, err := svc.AcceptTerm(r.Context(), chi.URLParam(r, "requestID"), adopter.ID)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func cancelHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adopter, ok := requireAdopter(w, r, profilesSvc)
		if !ok {
			return
		}

		var req cancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Cancel(r.Context(), chi.URLParam(r, "requestID"), adopter.ID, req.Reason)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func requireAdopter(w http.ResponseWriter, r *http.Request, profilesSvc *profiles.Service) (profiles.Adopter, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return profiles.Adopter{}, false
	}

	adopter, err := profilesSvc.GetAdopterByUserID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "adopter profile required", http.StatusForbidden)
		return profiles.Adopter{}, false
	}
	return adopter, true
}

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

func writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "request not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicateRequest), errors.Is(err, ErrPetUnavailable),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrTermNotAccepted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRequestResponse(r Request) requestResponse {
	return requestResponse{
		ID:                 r.ID,
		PetID:              r.PetID,
		AdopterID:          r.AdopterID,
		Motive:             r.Motive,
		Experience:         r.Experience,
		Housing:            r.Housing,
		Status:             string(r.Status),
		RequestedAt:        r.RequestedAt,
		RespondedAt:        r.RespondedAt,
		Response:           r.Response,
		InterviewAt:        r.InterviewAt,
		InterviewLocation:  r.InterviewLocation,
		InterviewNotes:     r.InterviewNotes,
		PickupAt:           r.PickupAt,
		PickupNotes:        r.PickupNotes,
		TermAccepted:       r.TermAccepted,
		TermAcceptedAt:     r.TermAcceptedAt,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toRequestResponses(items []Request) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRequestResponse(r))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
