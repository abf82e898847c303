package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/cividoc/cividoc/pkg/handlers"
	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/pagination"
	"github.com/cividoc/cividoc/pkg/routes"
	"github.com/cividoc/cividoc/pkg/security"
)

const dateLayout = "2006-01-02"

// Handler provides HTTP endpoints for document issuance operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	maxBatchSize  int
}

// IssueRequest is the JSON body for issuing a single document. Dates use
// the YYYY-MM-DD layout.
type IssueRequest struct {
	DocumentNumber string `json:"document_number"`
	DocumentType   string `json:"document_type"`
	Surname        string `json:"surname"`
	GivenNames     string `json:"given_names"`
	Nationality    string `json:"nationality"`
	IssuingState   string `json:"issuing_state"`
	DateOfBirth    string `json:"date_of_birth"`
	Sex            string `json:"sex"`
	DateOfExpiry   string `json:"date_of_expiry"`
	PersonalNumber string `json:"personal_number,omitempty"`
	BiometricRef   string `json:"biometric_ref,omitempty"`
}

// Command converts the request into an IssueCommand, parsing both dates.
func (r IssueRequest) Command() (IssueCommand, error) {
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return IssueCommand{}, fmt.Errorf("%w: invalid date_of_birth", ErrInvalidRequest)
	}

	expiry, err := time.Parse(dateLayout, r.DateOfExpiry)
	if err != nil {
		return IssueCommand{}, fmt.Errorf("%w: invalid date_of_expiry", ErrInvalidRequest)
	}

	return IssueCommand{
		DocumentNumber: r.DocumentNumber,
		DocumentType:   security.DocumentType(r.DocumentType),
		Surname:        r.Surname,
		GivenNames:     r.GivenNames,
		Nationality:    r.Nationality,
		IssuingState:   r.IssuingState,
		DateOfBirth:    dob,
		Sex:            mrz.Sex(r.Sex),
		DateOfExpiry:   expiry,
		PersonalNumber: r.PersonalNumber,
		BiometricRef:   r.BiometricRef,
	}, nil
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, upload size limit, and batch size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	maxBatchSize int,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		maxBatchSize:  maxBatchSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download},
			{Method: "POST", Pattern: "", Handler: h.Issue},
			{Method: "POST", Pattern: "/batch", Handler: h.IssueBatch},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/render", Handler: h.AttachRender},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of documents with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single document by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching documents.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Issue processes a JSON issue request and returns the issued document with
// its computed security specification.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	cmd, err := req.Command()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	doc, err := h.sys.Issue(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

// IssueBatch processes a JSON array of issue requests. Results preserve the
// request order; per-command failures are reported inline rather than
// failing the batch.
func (h *Handler) IssueBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if len(reqs) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	if len(reqs) > h.maxBatchSize {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBatchTooLarge)
		return
	}

	cmds := make([]IssueCommand, 0, len(reqs))
	for _, req := range reqs {
		cmd, err := req.Command()
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		cmds = append(cmds, cmd)
	}

	results := h.sys.IssueBatch(r.Context(), cmds)
	handlers.RespondJSON(w, http.StatusOK, results)
}

// AttachRender processes a multipart form upload containing a rendered PDF
// and attaches it to the document. The page count is extracted with pdfcpu;
// non-PDF uploads are rejected.
func (h *Handler) AttachRender(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		h.logger.Debug("render rejected, not a readable PDF", "error", err)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	upload := RenderUpload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: "application/pdf",
		PageCount:   pages,
	}

	doc, err := h.sys.AttachRender(r.Context(), id, upload)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Download streams the rendered PDF for a document.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	w.Header().Set("Content-Type", contentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("download stream interrupted", "id", id, "error", err)
	}
}

// Delete removes a document by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
