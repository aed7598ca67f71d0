package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/service"
)

// MembershipHandler handles membership applications and their review.
type MembershipHandler struct {
	membershipService service.MembershipService
}

// NewMembershipHandler creates a MembershipHandler with the given service.
func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// Submit handles POST /api/membership.
func (h *MembershipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.MembershipInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: "invalid_json"})
		return
	}

	created, err := h.membershipService.Submit(r.Context(), req)
	if err != nil {
		writeSubmitError(w, err, "membership")
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Success: true, ID: created.ID})
}

type membershipListResponse struct {
	Requests []*model.MembershipRequest `json:"requests"`
}

// AdminList handles GET /api/admin/memberships.
func (h *MembershipHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.membershipService.List(r.Context())
	if err != nil {
		slog.Error("list membership requests failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if reqs == nil {
		reqs = []*model.MembershipRequest{}
	}
	writeJSON(w, http.StatusOK, membershipListResponse{Requests: reqs})
}

// UpdateStatus handles POST /api/admin/memberships/{id}/status.
func (h *MembershipHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	status, err := model.ParseMembershipStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	if err := h.membershipService.UpdateStatus(r.Context(), id, status); err != nil {
		writeRepoError(w, err, "update_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotes handles POST /api/admin/memberships/{id}/notes.
func (h *MembershipHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	var req struct {
		Notes *string `json:"notes"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Notes == nil {
		writeError(w, http.StatusBadRequest, "notes_required")
		return
	}

	err := h.membershipService.UpdateNotes(r.Context(), id, *req.Notes)
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "notes_too_long")
		return
	}
	if err != nil {
		writeRepoError(w, err, "update_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
