package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/meridianclub/backend/internal/model"
)

func newTestRemote(t *testing.T, h http.HandlerFunc) (*Remote, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	r, err := NewRemote(RemoteConfig{
		URL:           srv.URL + "/",
		Token:         "tok",
		AllowInsecure: true,
		Logger:        slog.New(slog.NewTextHandler(&logs, nil)),
	})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	return r, &logs
}

func TestNewRemote_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  RemoteConfig
		want string
	}{
		{"empty", RemoteConfig{}, "required"},
		{"scheme", RemoteConfig{URL: "ftp://x"}, "scheme"},
		{"insecure", RemoteConfig{URL: "http://club.example.com"}, "HTTPS required"},
		{"no host", RemoteConfig{URL: "https://"}, "host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemote(tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	r, err := NewRemote(RemoteConfig{URL: "https://club.example.com/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.baseURL != "https://club.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", r.baseURL)
	}
	if r.httpClient.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", r.httpClient.Timeout)
	}
}

func TestRemoteContacts_FetchAll(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []model.ContactSubmission{
		{ID: "2", Name: "Bo", Email: "bo@example.com", CreatedAt: created},
		{ID: "1", Name: "Al", Email: "al@example.com", IsRead: true, CreatedAt: created.Add(-time.Hour)},
	}
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet || req.URL.Path != "/api/admin/contacts" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"submissions": want})
	})

	got, err := r.Contacts().FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FetchAll mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteContacts_FetchAll_ServerError(t *testing.T) {
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal_error"}`))
	})

	_, err := r.Contacts().FetchAll(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 500 || se.Code != "internal_error" {
		t.Errorf("expected StatusError 500 internal_error, got %v", err)
	}
}

func TestRemoteContacts_Mutate(t *testing.T) {
	stamp := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	var body readPatchRequest
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPatch || req.URL.Path != "/api/admin/contacts/abc" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	err := r.Contacts().Mutate(context.Background(), "abc", Patch{IsRead: boolPtr(true), UpdatedAt: &stamp})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !body.IsRead || body.UpdatedAt == nil || !body.UpdatedAt.Equal(stamp) {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestRemoteContacts_Mutate_NotFound(t *testing.T) {
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found"}`))
	})

	err := r.Contacts().Mutate(context.Background(), "gone", Patch{IsRead: boolPtr(true)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoteContacts_MutateMany_WarnsOnShortCount(t *testing.T) {
	var body markReadRequest
	r, logs := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/admin/contacts/mark-read" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(markReadResponse{Updated: 1})
	})

	if err := r.Contacts().MutateMany(context.Background(), []string{"a", "b"}, Patch{IsRead: boolPtr(true)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, body.IDs); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "fewer rows") {
		t.Errorf("expected warning in logs, got %q", logs.String())
	}
}

func TestRemoteContacts_MutateMany_RejectsUnread(t *testing.T) {
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("server should not be called")
	})
	err := r.Contacts().MutateMany(context.Background(), []string{"a"}, Patch{IsRead: boolPtr(false)})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestRemoteContacts_Remove(t *testing.T) {
	var gotMethod, gotPath string
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		gotMethod, gotPath = req.Method, req.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := r.Contacts().Remove(context.Background(), "c7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/admin/contacts/c7" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestRemoteMemberships_Mutate(t *testing.T) {
	var paths []string
	var bodies []map[string]string
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		paths = append(paths, req.URL.Path)
		var b map[string]string
		_ = json.NewDecoder(req.Body).Decode(&b)
		bodies = append(bodies, b)
		w.WriteHeader(http.StatusNoContent)
	})

	st := model.StatusApproved
	notes := "welcome"
	if err := r.Memberships().Mutate(context.Background(), "m1", Patch{Status: &st, Notes: &notes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPaths := []string{"/api/admin/memberships/m1/status", "/api/admin/memberships/m1/notes"}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if bodies[0]["status"] != "approved" || bodies[1]["notes"] != "welcome" {
		t.Errorf("unexpected bodies: %v", bodies)
	}
}

func TestRemote_Login(t *testing.T) {
	exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r, _ := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		var b map[string]string
		_ = json.NewDecoder(req.Body).Decode(&b)
		if b["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "jwt", "expires_at": exp})
	})

	token, expiresAt, err := r.Login(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "jwt" || !expiresAt.Equal(exp) {
		t.Errorf("unexpected login result %q %v", token, expiresAt)
	}

	_, _, err = r.Login(context.Background(), "wrong")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 StatusError, got %v", err)
	}
}
