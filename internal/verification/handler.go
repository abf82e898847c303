// Package verification implements the stateless verification surface:
// MRZ check digit validation, auxiliary payload signature checks, and
// security feature catalog lookups.
package verification

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cividoc/cividoc/pkg/handlers"
	"github.com/cividoc/cividoc/pkg/metrics"
	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/payload"
	"github.com/cividoc/cividoc/pkg/routes"
	"github.com/cividoc/cividoc/pkg/security"
	"github.com/cividoc/cividoc/pkg/signing"
)

// ErrInvalidRequest indicates an unusable verification request body.
var ErrInvalidRequest = errors.New("invalid verification request")

// Handler provides HTTP endpoints for verification operations. It holds no
// persistent state; every check runs against the request body alone.
type Handler struct {
	signer  signing.Signer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates a verification Handler with the given signer,
// metrics, and logger.
func NewHandler(signer signing.Signer, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		signer:  signer,
		metrics: m,
		logger:  logger.With("handler", "verification"),
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/verify",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/mrz", Handler: h.VerifyMRZ},
					{Method: "POST", Pattern: "/payload", Handler: h.VerifyPayload},
				},
			},
			{
				Prefix: "/features",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListFeatures},
					{Method: "GET", Pattern: "/{documentType}", Handler: h.Features},
				},
			},
		},
	}
}

// MRZRequest is the JSON body for an MRZ verification check. Format is
// matched case-insensitively; responses always use the lowercase form.
type MRZRequest struct {
	Format string   `json:"format"`
	Lines  []string `json:"lines"`
}

// VerifyMRZ validates presented MRZ lines: structure, charset, and every
// check digit including the composite.
func (h *Handler) VerifyMRZ(w http.ResponseWriter, r *http.Request) {
	var req MRZRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := mrz.Verify(req.Lines, mrz.Format(strings.ToUpper(req.Format)))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.metrics.ObserveVerification("mrz", result.Valid)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// PayloadResult reports the outcome of an auxiliary payload check.
type PayloadResult struct {
	Valid   bool             `json:"valid"`
	Reason  string           `json:"reason,omitempty"`
	Payload *payload.Payload `json:"payload,omitempty"`
}

// VerifyPayload decodes a scanned barcode payload from the request body and
// checks its signature against the service signer.
func (h *Handler) VerifyPayload(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	p, err := payload.Decode(body)
	if err != nil {
		h.metrics.ObserveVerification("payload", false)
		handlers.RespondJSON(w, http.StatusOK, PayloadResult{
			Valid:  false,
			Reason: err.Error(),
		})
		return
	}

	valid, err := p.Verify(h.signer)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.metrics.ObserveVerification("payload", valid)

	result := PayloadResult{Valid: valid, Payload: p}
	if !valid {
		result.Reason = "signature mismatch"
		result.Payload = nil
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FeatureResponse describes the resolved security configuration for one
// document type.
type FeatureResponse struct {
	DocumentType string              `json:"documentType"`
	Known        bool                `json:"known"`
	MRZFormat    string              `json:"mrzFormat"`
	Features     security.FeatureSet `json:"features"`
}

func featureResponse(dt security.DocumentType) FeatureResponse {
	return FeatureResponse{
		DocumentType: string(dt),
		Known:        security.Known(dt),
		MRZFormat:    strings.ToLower(string(security.FormatFor(dt))),
		Features:     security.Resolve(dt),
	}
}

// Features returns the resolved feature set for a document type. Resolution
// is total: unknown types report known=false with baseline features.
func (h *Handler) Features(w http.ResponseWriter, r *http.Request) {
	dt := security.DocumentType(r.PathValue("documentType"))
	handlers.RespondJSON(w, http.StatusOK, featureResponse(dt))
}

// ListFeatures returns the resolved feature sets for every catalogued
// document type.
func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	types := security.Types()
	out := make([]FeatureResponse, 0, len(types))
	for _, dt := range types {
		out = append(out, featureResponse(dt))
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}
