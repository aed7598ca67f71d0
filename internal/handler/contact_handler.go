package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
	"github.com/meridianclub/backend/internal/service"
)

// maxMarkReadIDs caps a single mark-read batch.
const maxMarkReadIDs = 1000

// ContactHandler handles contact form submission and the admin inbox.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type submitResponse struct {
	Success    bool              `json:"success"`
	ID         string            `json:"id,omitempty"`
	EmailSent  *bool             `json:"emailSent,omitempty"`
	EmailError string            `json:"emailError,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// writeSubmitError maps a submission error to 400 (validation) or 500 (storage).
func writeSubmitError(w http.ResponseWriter, err error, kind string) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: "validation_failed", Fields: ve.Fields})
		return
	}
	slog.Error("submission failed", "kind", kind, "error", err)
	writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "submit_failed"})
}

// Submit handles POST /api/contact. The submission succeeds once stored even
// if the notification mail fails.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.ContactInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: "invalid_json"})
		return
	}

	receipt, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		writeSubmitError(w, err, "contact")
		return
	}

	resp := submitResponse{Success: true, ID: receipt.ID, EmailSent: &receipt.EmailSent}
	if receipt.EmailErr != nil {
		resp.EmailError = receipt.EmailErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// adminListResponse is the JSON response for GET /api/admin/contacts.
type adminListResponse struct {
	Submissions []*model.ContactSubmission `json:"submissions"`
}

// AdminList handles GET /api/admin/contacts.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	subs, err := h.contactService.List(r.Context())
	if err != nil {
		slog.Error("list contact submissions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty lists
	if subs == nil {
		subs = []*model.ContactSubmission{}
	}
	writeJSON(w, http.StatusOK, adminListResponse{Submissions: subs})
}

type readPatchRequest struct {
	IsRead    *bool      `json:"is_read"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PatchRead handles PATCH /api/admin/contacts/{id}.
func (h *ContactHandler) PatchRead(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var req readPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.IsRead == nil {
		writeError(w, http.StatusBadRequest, "is_read_required")
		return
	}

	var at time.Time
	if req.UpdatedAt != nil {
		at = *req.UpdatedAt
	}
	if err := h.contactService.SetRead(r.Context(), id, *req.IsRead, at); err != nil {
		writeRepoError(w, err, "update_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markReadRequest struct {
	IDs       []string   `json:"ids"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// MarkRead handles POST /api/admin/contacts/mark-read.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if len(req.IDs) > maxMarkReadIDs {
		writeError(w, http.StatusBadRequest, "too_many_ids")
		return
	}
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id")
			return
		}
	}

	var at time.Time
	if req.UpdatedAt != nil {
		at = *req.UpdatedAt
	}
	n, err := h.contactService.MarkRead(r.Context(), req.IDs, at)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("mark read failed", "count", len(req.IDs), "error", err)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// Delete handles DELETE /api/admin/contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	if err := h.contactService.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recordID returns the {id} path parameter. Ids are UUIDs, so anything else
// cannot name a row and gets 404.
func recordID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return "", false
	}
	return id, true
}

// writeRepoError writes 404 for missing rows and 500 otherwise.
func writeRepoError(w http.ResponseWriter, err error, code string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	slog.Error("admin write failed", "code", code, "error", err)
	writeError(w, http.StatusInternalServerError, code)
}
