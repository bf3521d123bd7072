// Package validations exposes the validation workflow over JSON HTTP.
// The core stays transport-agnostic; this feature only decodes input,
// resolves the caller principal, and maps error kinds to status codes.
package validations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookworks/middleoffice/internal/app/service/validation"
	"github.com/bookworks/middleoffice/internal/app/system/apperr"
	"github.com/bookworks/middleoffice/internal/app/system/timeouts"
	"github.com/bookworks/middleoffice/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// principalHeader carries the opaque caller identity. The identity
// collaborator in front of this service has already authenticated it.
const principalHeader = "X-Principal"

// Handler holds dependencies for the validation endpoints.
type Handler struct {
	Svc *validation.Service
	Log *zap.Logger
}

// NewHandler constructs a validations Handler.
func NewHandler(svc *validation.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

type createRequestPayload struct {
	TemplateID     string `json:"templateId"`
	BookID         string `json:"bookId"`
	BookTitle      string `json:"bookTitle"`
	ValidationType string `json:"validationType,omitempty"`
	Message        string `json:"message,omitempty"`
}

type decisionPayload struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Create handles POST /validations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var in createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, err := h.Svc.CreateRequest(ctx, validation.CreateParams{
		TemplateID:     in.TemplateID,
		BookID:         in.BookID,
		BookTitle:      in.BookTitle,
		CreatedBy:      r.Header.Get(principalHeader),
		ValidationType: models.ValidationType(in.ValidationType),
		Message:        in.Message,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// Get handles GET /validations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, err := h.Svc.GetRequest(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListPending handles GET /validations/pending?role=R.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListPendingForRole(ctx, r.URL.Query().Get("role"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.ValidationRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Decide handles POST /validations/{id}/validators/{validatorID}/decision.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, err := h.Svc.RecordDecision(ctx, validation.DecisionParams{
		RequestID:   chi.URLParam(r, "id"),
		ValidatorID: chi.URLParam(r, "validatorID"),
		Decision:    models.Status(in.Decision),
		DecidedBy:   r.Header.Get(principalHeader),
		Comment:     in.Comment,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListForBook handles GET /books/{bookID}/validations.
func (h *Handler) ListForBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListRequestsForBook(ctx, chi.URLParam(r, "bookID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.ValidationRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// writeServiceError maps error kinds to HTTP status codes. Unknown
// errors are logged and returned as opaque 500s.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("validation request handling failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
