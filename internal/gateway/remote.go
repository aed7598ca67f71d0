package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meridianclub/backend/internal/model"
)

// RemoteConfig holds configuration for the admin API client.
type RemoteConfig struct {
	URL           string
	Token         string
	AllowInsecure bool
	Timeout       time.Duration
	Logger        *slog.Logger
}

// Remote is an HTTP client for the club admin API.
type Remote struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemote validates cfg and creates a Remote client.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Scheme == "http" && !cfg.AllowInsecure {
		return nil, fmt.Errorf("HTTPS required for remote connections; set allow_insecure = true under [remote] for local development")
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("remote URL must include a host (e.g., https://club.example.com)")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Remote{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Contacts returns the contact submissions gateway.
func (r *Remote) Contacts() ContactGateway {
	return &remoteContacts{r: r}
}

// Memberships returns the membership requests gateway.
func (r *Remote) Memberships() MembershipGateway {
	return &remoteMemberships{r: r}
}

// Login exchanges the admin password for a session token.
func (r *Remote) Login(ctx context.Context, password string) (string, time.Time, error) {
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	err := r.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, &resp)
	if err != nil {
		return "", time.Time{}, err
	}
	return resp.Token, resp.ExpiresAt, nil
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return &StatusError{StatusCode: resp.StatusCode, Code: apiErr.Error, Message: apiErr.Message}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// do performs one authenticated JSON request. out may be nil.
func (r *Remote) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type remoteContacts struct {
	r *Remote
}

type contactListResponse struct {
	Submissions []model.ContactSubmission `json:"submissions"`
}

type readPatchRequest struct {
	IsRead    bool       `json:"is_read"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type markReadRequest struct {
	IDs       []string   `json:"ids"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type markReadResponse struct {
	Updated int64 `json:"updated"`
}

func (g *remoteContacts) FetchAll(ctx context.Context) ([]model.ContactSubmission, error) {
	var resp contactListResponse
	if err := g.r.do(ctx, http.MethodGet, "/api/admin/contacts", nil, &resp); err != nil {
		return nil, fetchErr(KindContact, err)
	}
	if resp.Submissions == nil {
		resp.Submissions = []model.ContactSubmission{}
	}
	return resp.Submissions, nil
}

func (g *remoteContacts) Mutate(ctx context.Context, id string, patch Patch) error {
	if patch.IsRead == nil || patch.Status != nil || patch.Notes != nil {
		return mutationErr(KindContact, "update", id, fmt.Errorf("contact patch: %w", ErrUnsupported))
	}
	req := readPatchRequest{IsRead: *patch.IsRead, UpdatedAt: patch.UpdatedAt}
	path := "/api/admin/contacts/" + url.PathEscape(id)
	if err := g.r.do(ctx, http.MethodPatch, path, req, nil); err != nil {
		return mutationErr(KindContact, "update", id, err)
	}
	return nil
}

// MutateMany only supports marking submissions read, which is the only
// batch the admin API exposes.
func (g *remoteContacts) MutateMany(ctx context.Context, ids []string, patch Patch) error {
	if patch.IsRead == nil || !*patch.IsRead || patch.Status != nil || patch.Notes != nil {
		return mutationErr(KindContact, "mark_read", "", fmt.Errorf("batch patch: %w", ErrUnsupported))
	}
	var resp markReadResponse
	req := markReadRequest{IDs: ids, UpdatedAt: patch.UpdatedAt}
	if err := g.r.do(ctx, http.MethodPost, "/api/admin/contacts/mark-read", req, &resp); err != nil {
		return mutationErr(KindContact, "mark_read", "", err)
	}
	if resp.Updated < int64(len(ids)) {
		g.r.logger.Warn("mark-read updated fewer rows than requested",
			"requested", len(ids),
			"updated", resp.Updated,
		)
	}
	return nil
}

func (g *remoteContacts) Remove(ctx context.Context, id string) error {
	path := "/api/admin/contacts/" + url.PathEscape(id)
	if err := g.r.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return mutationErr(KindContact, "delete", id, err)
	}
	return nil
}

type remoteMemberships struct {
	r *Remote
}

type membershipListResponse struct {
	Requests []model.MembershipRequest `json:"requests"`
}

func (g *remoteMemberships) FetchAll(ctx context.Context) ([]model.MembershipRequest, error) {
	var resp membershipListResponse
	if err := g.r.do(ctx, http.MethodGet, "/api/admin/memberships", nil, &resp); err != nil {
		return nil, fetchErr(KindMembership, err)
	}
	if resp.Requests == nil {
		resp.Requests = []model.MembershipRequest{}
	}
	return resp.Requests, nil
}

func (g *remoteMemberships) Mutate(ctx context.Context, id string, patch Patch) error {
	if patch.IsRead != nil || (patch.Status == nil && patch.Notes == nil) {
		return mutationErr(KindMembership, "update", id, fmt.Errorf("membership patch: %w", ErrUnsupported))
	}
	base := "/api/admin/memberships/" + url.PathEscape(id)
	if patch.Status != nil {
		body := map[string]string{"status": string(*patch.Status)}
		if err := g.r.do(ctx, http.MethodPost, base+"/status", body, nil); err != nil {
			return mutationErr(KindMembership, "update_status", id, err)
		}
	}
	if patch.Notes != nil {
		body := map[string]string{"notes": *patch.Notes}
		if err := g.r.do(ctx, http.MethodPost, base+"/notes", body, nil); err != nil {
			return mutationErr(KindMembership, "update_notes", id, err)
		}
	}
	return nil
}

func (g *remoteMemberships) Remove(ctx context.Context, id string) error {
	return mutationErr(KindMembership, "delete", id, ErrUnsupported)
}
