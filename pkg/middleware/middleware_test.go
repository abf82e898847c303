package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cividoc/cividoc/pkg/middleware"
)

func TestStackOrder(t *testing.T) {
	var order []string

	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	sys := middleware.New()
	sys.Use(tag("outer"))
	sys.Use(tag("inner"))

	handler := sys.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	called := false
	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/documents", nil))
	if !called {
		t.Error("wrapped handler not called")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"https://portal.example"},
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://portal.example")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSRejectedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"https://portal.example"},
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSDisabledPassthrough(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want handler status", rec.Code)
	}
}

func TestAuthConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     middleware.AuthConfig
		wantErr bool
	}{
		{"disabled needs nothing", middleware.AuthConfig{}, false},
		{"enabled without issuer", middleware.AuthConfig{Enabled: true, ClientID: "c"}, true},
		{"enabled without client", middleware.AuthConfig{Enabled: true, Issuer: "https://idp"}, true},
		{"enabled complete", middleware.AuthConfig{Enabled: true, Issuer: "https://idp", ClientID: "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDisabledAuthenticatorIsNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth, err := middleware.NewAuthenticator(t.Context(), &middleware.AuthConfig{}, logger)
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	if auth != nil {
		t.Error("disabled config returned non-nil authenticator")
	}
}

func TestSubjectMissing(t *testing.T) {
	if got := middleware.Subject(t.Context()); got != "" {
		t.Errorf("Subject = %q, want empty", got)
	}
}
