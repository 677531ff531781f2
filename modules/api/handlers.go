package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/company"
	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/subscription"
)

type handlers struct {
	gate *quota.Gate
	subs *subscription.Service
}

type authorizeRequest struct {
	CompanyID uuid.UUID       `json:"company_id"`
	Operation quota.Operation `json:"operation"`
}

func (h *handlers) authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := h.gate.Authorize(r.Context(), req.CompanyID, req.Operation)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (h *handlers) billingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	result, err := h.subs.HandleWebhook(r.Context(), payload, r.Header.Get("Paddle-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrWebhookVerificationFailed):
			writeError(w, http.StatusUnauthorized, "signature verification failed")
		case errors.Is(err, subscription.ErrUnsupportedEvent):
			// Events this core doesn't track are acknowledged so the
			// provider stops redelivering them.
			writeJSON(w, http.StatusOK, subscription.Result{Ignored: "unsupported_event"})
		default:
			writeFault(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handlers) registerCompany(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	c, err := h.subs.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, company.ErrCompanyAlreadyExists) {
			writeError(w, http.StatusConflict, "company already exists")
			return
		}
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handlers) companySnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	snap, err := h.subs.GetSnapshot(r.Context(), id)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type changePlanRequest struct {
	Plan company.Plan `json:"plan"`
}

func (h *handlers) changePlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	var req changePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limits, err := h.subs.ChangePlan(r.Context(), id, req.Plan)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			writeError(w, http.StatusBadRequest, "unknown plan")
			return
		}
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

// writeFault maps core errors to status codes: unknown tenants are 404,
// conflict exhaustion is retryable 503, everything else (including
// invariant violations) is an opaque 500.
func writeFault(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, company.ErrCompanyNotFound):
		writeError(w, http.StatusNotFound, "company not found")
	case errors.Is(err, company.ErrConflict):
		writeError(w, http.StatusServiceUnavailable, "concurrent update conflict, retry")
	case errors.Is(err, quota.ErrUnknownOperation):
		writeError(w, http.StatusBadRequest, "unknown operation")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
