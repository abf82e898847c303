package verification_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cividoc/cividoc/internal/verification"
	"github.com/cividoc/cividoc/pkg/metrics"
	"github.com/cividoc/cividoc/pkg/payload"
	"github.com/cividoc/cividoc/pkg/routes"
	"github.com/cividoc/cividoc/pkg/signing"
)

func newTestSigner(t *testing.T) signing.Signer {
	t.Helper()
	signer, err := signing.NewHMAC([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("NewHMAC: %v", err)
	}
	return signer
}

func setupMux(t *testing.T, signer signing.Signer) *http.ServeMux {
	t.Helper()
	h := verification.NewHandler(
		signer,
		metrics.New(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestVerifyMRZ(t *testing.T) {
	mux := setupMux(t, newTestSigner(t))

	t.Run("accepts valid specimen", func(t *testing.T) {
		body, _ := json.Marshal(verification.MRZRequest{
			Format: "td3",
			Lines: []string{
				"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
				"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
			},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/mrz", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result struct {
			Valid bool `json:"valid"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.Valid {
			t.Error("specimen lines reported invalid")
		}
	})

	t.Run("accepts uppercase format", func(t *testing.T) {
		body, _ := json.Marshal(verification.MRZRequest{
			Format: "TD3",
			Lines: []string{
				"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
				"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
			},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/mrz", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("reports tampered digit", func(t *testing.T) {
		body, _ := json.Marshal(verification.MRZRequest{
			Format: "td3",
			Lines: []string{
				"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
				"L898902C37UTO7408122F1204159ZE184226B<<<<<10",
			},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/mrz", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result struct {
			Valid    bool `json:"valid"`
			Failures []struct {
				Field string `json:"field"`
			} `json:"failures"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Valid || len(result.Failures) == 0 {
			t.Errorf("expected failures, got %+v", result)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		body, _ := json.Marshal(verification.MRZRequest{Format: "td2"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/mrz", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/mrz", strings.NewReader("{"))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestVerifyPayload(t *testing.T) {
	signer := newTestSigner(t)
	mux := setupMux(t, signer)

	t.Run("accepts signed payload", func(t *testing.T) {
		p, err := payload.Encode("doc-123", "ordinary_passport", "", signer)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		body, err := p.Canonical()
		if err != nil {
			t.Fatalf("Canonical: %v", err)
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/payload", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result verification.PayloadResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.Valid {
			t.Errorf("signed payload reported invalid: %+v", result)
		}
		if result.Payload == nil || result.Payload.DocumentID != "doc-123" {
			t.Errorf("payload not echoed: %+v", result.Payload)
		}
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		p, err := payload.Encode("doc-123", "ordinary_passport", "", signer)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		p.DocumentID = "doc-999"
		body, err := p.Canonical()
		if err != nil {
			t.Fatalf("Canonical: %v", err)
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/payload", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		var result verification.PayloadResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Valid {
			t.Error("tampered payload reported valid")
		}
		if result.Reason == "" {
			t.Error("expected a failure reason")
		}
	})

	t.Run("reports undecodable payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify/payload", strings.NewReader(`{"format":"wrong"}`))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result verification.PayloadResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Valid {
			t.Error("undecodable payload reported valid")
		}
	})
}

func TestFeatures(t *testing.T) {
	mux := setupMux(t, newTestSigner(t))

	t.Run("known type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/features/ordinary_passport", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result verification.FeatureResponse
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.Known {
			t.Error("ordinary_passport reported unknown")
		}
		if result.MRZFormat != "td3" {
			t.Errorf("mrz format = %q, want td3", result.MRZFormat)
		}
		if !result.Features.MRZ || !result.Features.BiometricChip {
			t.Errorf("passport features incomplete: %+v", result.Features)
		}
	})

	t.Run("unknown type gets baseline", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/features/library_card", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result verification.FeatureResponse
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Known {
			t.Error("library_card reported known")
		}
		if !result.Features.Watermarks || !result.Features.QRCode {
			t.Errorf("baseline features missing: %+v", result.Features)
		}
	})

	t.Run("lists catalog", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/features", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var results []verification.FeatureResponse
		if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(results) < 20 {
			t.Errorf("catalog size = %d, want full catalog", len(results))
		}
	})
}
