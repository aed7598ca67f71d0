package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridianclub/backend/internal/model"
	"github.com/meridianclub/backend/internal/repository"
	"github.com/meridianclub/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc   func(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error)
	listFunc     func(ctx context.Context) ([]*model.ContactSubmission, error)
	setReadFunc  func(ctx context.Context, id string, read bool, at time.Time) error
	markReadFunc func(ctx context.Context, ids []string, at time.Time) (int64, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockContactService) Submit(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, in)
	}
	return &service.SubmitReceipt{ID: "new-id", EmailSent: true}, nil
}

func (m *mockContactService) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContactService) SetRead(ctx context.Context, id string, read bool, at time.Time) error {
	if m.setReadFunc != nil {
		return m.setReadFunc(ctx, id, read, at)
	}
	return nil
}

func (m *mockContactService) MarkRead(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, ids, at)
	}
	return int64(len(ids)), nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

const (
	contactID = "5b0c9a2e-3f4d-4c1b-9e8a-7d6f5e4c3b2a"
	otherID   = "0d6c7b8a-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	memberID  = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

// withURLParam attaches a chi route parameter to req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

// ---------------------------------------------------------------------------
// POST /api/contact tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured service.ContactInput
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error) {
			captured = in
			return &service.SubmitReceipt{ID: "c1", EmailSent: true}, nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Alice","email":"alice@example.com","subject":"Hi","message":"Hello!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body: %s", rec.Code, rec.Body.String())
	}
	if captured.Email != "alice@example.com" || captured.Subject != "Hi" {
		t.Errorf("unexpected input %+v", captured)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != true || resp["emailSent"] != true {
		t.Errorf("unexpected response %v", resp)
	}
	if _, ok := resp["emailError"]; ok {
		t.Errorf("emailError should be omitted on success: %v", resp)
	}
}

func TestContactHandler_Submit_MailFailureIsStillCreated(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error) {
			return &service.SubmitReceipt{ID: "c1", EmailErr: errors.New("smtp timeout")}, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != true || resp["emailSent"] != false || resp["emailError"] != "smtp timeout" {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestContactHandler_Submit_ValidationError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error) {
			return nil, &service.ValidationError{Fields: map[string]string{"email": "is required"}}
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"message":"x"}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != false || resp["error"] != "validation_failed" {
		t.Errorf("unexpected response %v", resp)
	}
	fields, _ := resp["fields"].(map[string]any)
	if fields["email"] != "is required" {
		t.Errorf("expected email field error, got %v", resp["fields"])
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_StorageError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.ContactInput) (*service.SubmitReceipt, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Admin endpoints
// ---------------------------------------------------------------------------

func TestContactHandler_AdminList_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"submissions":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestContactHandler_PatchRead(t *testing.T) {
	var gotID string
	var gotRead bool
	var gotAt time.Time
	mock := &mockContactService{
		setReadFunc: func(ctx context.Context, id string, read bool, at time.Time) error {
			gotID, gotRead, gotAt = id, read, at
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"is_read":true,"updated_at":"2026-03-04T05:06:07Z"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contacts/"+contactID, strings.NewReader(body))
	req = withURLParam(req, "id", contactID)
	rec := httptest.NewRecorder()
	h.PatchRead(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	want := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	if gotID != contactID || !gotRead || !gotAt.Equal(want) {
		t.Errorf("unexpected call id=%q read=%v at=%v", gotID, gotRead, gotAt)
	}
}

func TestContactHandler_PatchRead_MissingField(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`)), "id", contactID)
	rec := httptest.NewRecorder()
	h.PatchRead(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContactHandler_PatchRead_NotFound(t *testing.T) {
	mock := &mockContactService{
		setReadFunc: func(ctx context.Context, id string, read bool, at time.Time) error {
			return repository.ErrNotFound
		},
	}
	h := NewContactHandler(mock)

	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"is_read":false}`)), "id", otherID)
	rec := httptest.NewRecorder()
	h.PatchRead(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestContactHandler_MarkRead(t *testing.T) {
	var gotIDs []string
	mock := &mockContactService{
		markReadFunc: func(ctx context.Context, ids []string, at time.Time) (int64, error) {
			gotIDs = ids
			return 1, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/contacts/mark-read", strings.NewReader(`{"ids":["`+contactID+`","`+otherID+`"]}`))
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(gotIDs) != 2 {
		t.Errorf("expected 2 ids, got %v", gotIDs)
	}
	if resp := decodeBody(t, rec); resp["updated"] != float64(1) {
		t.Errorf("expected updated=1, got %v", resp)
	}
}

func TestContactHandler_MarkRead_RejectsMalformedID(t *testing.T) {
	mock := &mockContactService{
		markReadFunc: func(ctx context.Context, ids []string, at time.Time) (int64, error) {
			t.Error("service should not be called")
			return 0, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/contacts/mark-read", strings.NewReader(`{"ids":["`+contactID+`","42"]}`))
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "invalid_id" {
		t.Errorf("expected invalid_id, got %v", resp)
	}
}

// ---------------------------------------------------------------------------
// Malformed path ids
// ---------------------------------------------------------------------------

func TestContactHandler_MalformedIDIsNotFound(t *testing.T) {
	mock := &mockContactService{
		setReadFunc: func(ctx context.Context, id string, read bool, at time.Time) error {
			t.Error("service should not be called")
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			t.Error("service should not be called")
			return nil
		},
	}
	h := NewContactHandler(mock)

	for _, id := range []string{"not-a-uuid", "42", ""} {
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"is_read":true}`)), "id", id)
		rec := httptest.NewRecorder()
		h.PatchRead(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("patch %q: expected 404, got %d", id, rec.Code)
		}
		if resp := decodeBody(t, rec); resp["error"] != "not_found" {
			t.Errorf("patch %q: expected not_found, got %v", id, resp)
		}

		req = withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", id)
		rec = httptest.NewRecorder()
		h.Delete(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("delete %q: expected 404, got %d", id, rec.Code)
		}
	}
}

func TestContactHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusNoContent},
		{"missing", repository.ErrNotFound, http.StatusNotFound},
		{"db error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockContactService{
				deleteFunc: func(ctx context.Context, id string) error { return tt.err },
			}
			h := NewContactHandler(mock)

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", contactID)
			rec := httptest.NewRecorder()
			h.Delete(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
