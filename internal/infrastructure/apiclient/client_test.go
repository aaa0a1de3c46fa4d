package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

// ── stubs ────────────────────────────────────────────────────────────────────

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Token(context.Context) (string, error) { return s.token, s.err }

type observation struct {
	client string
	method string
	route  string
	status int
	kind   domain.ErrorKind
}

type stubRecorder struct {
	mu    sync.Mutex
	calls []observation
}

func (r *stubRecorder) ObserveCall(client, method, route string, status int, kind domain.ErrorKind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, observation{client, method, route, status, kind})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestClient(t *testing.T, baseURL string, tokens ports.TokenSource) *Client {
	t.Helper()
	return New(Options{
		Name:    "auth",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
}

func requireAPIError(t *testing.T, err error) *domain.APIError {
	t.Helper()
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T (%v)", err, err)
	}
	return apiErr
}

// ── success path ─────────────────────────────────────────────────────────────

func TestLogin_UnwrapsEnvelope(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"1","name":"A","email":"a@b.com","role":"employee","token":"tok"}}`)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, nil))
	env, err := api.Login(context.Background(), domain.RoleEmployee, ports.Credentials{Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotBody["email"] != "a@b.com" || gotBody["password"] != "secret" {
		t.Fatalf("unexpected request body %v", gotBody)
	}
	if !env.Success || env.Data == nil {
		t.Fatalf("expected success envelope with data, got %+v", env)
	}
	if env.Data.ID != "1" || env.Data.Token != "tok" || env.Data.Role != domain.RoleEmployee {
		t.Fatalf("unexpected data %+v", env.Data)
	}
}

func TestAdminRoutesUseAdminPrefix(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"9","name":"Boss","email":"boss@x.io","role":"admin","token":"t"}}`)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, nil))
	if _, err := api.Register(context.Background(), domain.RoleAdmin, ports.Registration{Name: "Boss", Email: "boss@x.io", Password: "pw"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "/api/admin/register" {
		t.Fatalf("expected /api/admin/register, got %s", path)
	}
}

// ── interceptor ──────────────────────────────────────────────────────────────

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"name":"A"}}`)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, stubTokens{token: "tok"}))
	if _, err := api.Profile(context.Background(), domain.RoleEmployee); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	h := <-headers
	if got := h.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if h.Get(RequestIDHeader) == "" {
		t.Fatalf("expected %s header", RequestIDHeader)
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	jobs := NewJobAPI(newTestClient(t, srv.URL, stubTokens{}))
	if _, err := jobs.ListJobs(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := (<-headers).Get("Authorization"); got != "" {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestTokenLookupFailureIsConstructionError(t *testing.T) {
	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, stubTokens{err: errors.New("session store unavailable")}))
	_, err := api.Profile(context.Background(), domain.RoleAdmin)

	apiErr := requireAPIError(t, err)
	if apiErr.Message != "session store unavailable" || apiErr.Kind() != domain.KindConstruction {
		t.Fatalf("unexpected error %q kind=%s", apiErr.Message, apiErr.Kind())
	}
	if hit.Load() {
		t.Fatalf("request must not be dispatched")
	}
}

// ── normalization ────────────────────────────────────────────────────────────

func TestBackendMessagePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, nil))
	env, err := api.Login(context.Background(), domain.RoleEmployee, ports.Credentials{Email: "a@b.com", Password: "bad"})

	if env != nil {
		t.Fatalf("expected nil envelope on failure")
	}
	apiErr := requireAPIError(t, err)
	if apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected backend message, got %q", apiErr.Message)
	}
	if apiErr.StatusCode() != http.StatusUnauthorized || apiErr.Kind() != domain.KindBackend {
		t.Fatalf("unexpected status=%d kind=%s", apiErr.StatusCode(), apiErr.Kind())
	}
}

func TestStatusWithoutMessage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "empty body", contentType: "application/json", body: ""},
		{name: "json without message", contentType: "application/json", body: `{"success":false}`},
		{name: "blank message", contentType: "application/json", body: `{"message":"   "}`},
		{name: "html page", contentType: "text/html", body: "<h1>oops</h1>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			api := NewAuthAPI(newTestClient(t, srv.URL, nil))
			_, err := api.Profile(context.Background(), domain.RoleEmployee)

			if got := requireAPIError(t, err).Message; got != "Error: 500" {
				t.Fatalf("expected %q, got %q", "Error: 500", got)
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	api := NewAuthAPI(newTestClient(t, baseURL, nil))
	_, err := api.Login(context.Background(), domain.RoleEmployee, ports.Credentials{Email: "a@b.com", Password: "secret"})

	apiErr := requireAPIError(t, err)
	if apiErr.Message != domain.NetworkErrorMessage {
		t.Fatalf("expected network message, got %q", apiErr.Message)
	}
	if apiErr.Kind() != domain.KindNetwork || apiErr.StatusCode() != 0 {
		t.Fatalf("unexpected kind=%s status=%d", apiErr.Kind(), apiErr.StatusCode())
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := New(Options{Name: "jobs", BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Logger: zerolog.Nop()})
	_, err := NewJobAPI(client).MyJobs(context.Background())

	if got := requireAPIError(t, err).Message; got != domain.NetworkErrorMessage {
		t.Fatalf("expected network message, got %q", got)
	}
}

func TestMalformedBaseURLIsConstructionError(t *testing.T) {
	api := NewAuthAPI(newTestClient(t, "http://[::1", nil))
	_, err := api.Profile(context.Background(), domain.RoleEmployee)

	apiErr := requireAPIError(t, err)
	if apiErr.Kind() != domain.KindConstruction {
		t.Fatalf("expected construction kind, got %s (%q)", apiErr.Kind(), apiErr.Message)
	}
	if apiErr.Message == "" || apiErr.Message == domain.NetworkErrorMessage {
		t.Fatalf("expected the underlying message, got %q", apiErr.Message)
	}
}

func TestUndecodableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":`)
	}))
	defer srv.Close()

	_, err := NewAuthAPI(newTestClient(t, srv.URL, nil)).Profile(context.Background(), domain.RoleAdmin)

	apiErr := requireAPIError(t, err)
	if apiErr.Message != domain.UnexpectedReplyMessage || apiErr.Kind() != domain.KindPayload {
		t.Fatalf("unexpected error %q kind=%s", apiErr.Message, apiErr.Kind())
	}
}

func TestInvalidRoleNeverDispatches(t *testing.T) {
	api := NewAuthAPI(newTestClient(t, "http://127.0.0.1:1", nil))
	_, err := api.Login(context.Background(), domain.Role("guest"), ports.Credentials{})

	apiErr := requireAPIError(t, err)
	if apiErr.Kind() != domain.KindValidation {
		t.Fatalf("expected validation error, got kind=%s", apiErr.Kind())
	}
	if !strings.Contains(apiErr.Message, "invalid role") {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

// ── observability ────────────────────────────────────────────────────────────

func TestSpansAndMetricsPerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			writeJSON(w, http.StatusNotFound, `{"message":"Job not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"j1"}}`)
	}))
	defer srv.Close()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	rec := &stubRecorder{}
	client := New(Options{
		Name:           "jobs",
		BaseURL:        srv.URL,
		Logger:         zerolog.Nop(),
		Metrics:        rec,
		TracerProvider: tp,
	})
	jobs := NewJobAPI(client)

	if _, err := jobs.GetJob(context.Background(), "j1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := jobs.GetJob(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for missing job")
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != "jobs GET /api/jobs/{id}" {
		t.Fatalf("unexpected span name %q", spans[0].Name)
	}

	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(rec.calls))
	}
	if rec.calls[0].status != 200 || rec.calls[0].kind != "" {
		t.Fatalf("unexpected success observation %+v", rec.calls[0])
	}
	if rec.calls[1].status != 404 || rec.calls[1].kind != domain.KindBackend || rec.calls[1].route != "/api/jobs/{id}" {
		t.Fatalf("unexpected failure observation %+v", rec.calls[1])
	}
}
