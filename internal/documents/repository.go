package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cividoc/cividoc/pkg/assembly"
	"github.com/cividoc/cividoc/pkg/metrics"
	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/pagination"
	"github.com/cividoc/cividoc/pkg/query"
	"github.com/cividoc/cividoc/pkg/repository"
	"github.com/cividoc/cividoc/pkg/security"
	"github.com/cividoc/cividoc/pkg/signing"
	"github.com/cividoc/cividoc/pkg/storage"
)

// batchConcurrency bounds the number of issue commands processed in
// parallel during a batch request.
const batchConcurrency = 8

type repo struct {
	db         *sql.DB
	storage    storage.System
	assembler  *assembly.Assembler
	metrics    *metrics.Metrics
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	signer signing.Signer,
	m *metrics.Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		assembler:  assembly.New(signer),
		metrics:    m,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, maxBatchSize int) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize, maxBatchSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocumentNumber", "Surname", "GivenNames")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Issue(ctx context.Context, cmd IssueCommand) (*Document, error) {
	start := time.Now()

	if !security.Known(cmd.DocumentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, cmd.DocumentType)
	}

	id := uuid.New()
	format := security.FormatFor(cmd.DocumentType)

	sec, err := r.assembler.Assemble(
		cmd.Record(),
		cmd.DocumentType,
		format,
		id.String(),
		assembly.Options{BiometricRef: cmd.BiometricRef},
	)
	if err != nil {
		if errors.Is(err, mrz.ErrInvalidRecord) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("assemble document security: %w", err)
	}

	secJSON, err := json.Marshal(sec)
	if err != nil {
		return nil, fmt.Errorf("encode security column: %w", err)
	}

	q := `
		INSERT INTO documents(id, document_number, document_type, surname, given_names, nationality, date_of_birth, sex, date_of_expiry, personal_number, security)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, document_number, document_type, surname, given_names, nationality, date_of_birth, sex, date_of_expiry, personal_number, security, render_key, render_pages, status, issued_at, updated_at`

	insertArgs := []any{
		id,
		cmd.DocumentNumber,
		string(cmd.DocumentType),
		cmd.Surname,
		cmd.GivenNames,
		cmd.Nationality,
		cmd.DateOfBirth,
		string(cmd.Sex),
		cmd.DateOfExpiry,
		cmd.PersonalNumber,
		secJSON,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	truncated := sec.MRZ != nil && len(sec.MRZ.Truncated) > 0
	r.metrics.ObserveIssue(string(d.DocumentType), time.Since(start).Seconds(), truncated)
	if truncated {
		r.logger.Warn("mrz fields truncated",
			"id", d.ID,
			"fields", sec.MRZ.Truncated,
		)
	}
	r.logger.Info("document issued",
		"id", d.ID,
		"document_number", d.DocumentNumber,
		"document_type", d.DocumentType,
	)
	return &d, nil
}

func (r *repo) IssueBatch(ctx context.Context, cmds []IssueCommand) []BatchResult {
	results := make([]BatchResult, len(cmds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, cmd := range cmds {
		g.Go(func() error {
			doc, err := r.Issue(gctx, cmd)
			if err != nil {
				results[i] = BatchResult{
					DocumentNumber: cmd.DocumentNumber,
					Error:          err.Error(),
				}
				return nil
			}
			results[i] = BatchResult{
				Document:       doc,
				DocumentNumber: cmd.DocumentNumber,
			}
			return nil
		})
	}

	// individual failures are reported per result, never as a group error
	_ = g.Wait()
	return results
}

func (r *repo) AttachRender(ctx context.Context, id uuid.UUID, upload RenderUpload) (*Document, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	key := buildRenderKey(id)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(upload.Data), upload.ContentType); err != nil {
		return nil, fmt.Errorf("upload render blob: %w", err)
	}

	q := `
		UPDATE documents
		SET render_key = $2, render_pages = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, document_number, document_type, surname, given_names, nationality, date_of_birth, sex, date_of_expiry, personal_number, security, render_key, render_pages, status, issued_at, updated_at`

	updateArgs := []any{id, key, upload.PageCount, StatusRendered}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanDocument)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.metrics.RendersAttached.Inc()
	r.logger.Info("render attached", "id", d.ID, "pages", upload.PageCount)
	return &d, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.RenderKey == nil {
		return nil, ErrNotRendered
	}

	result, err := r.storage.Download(ctx, *doc.RenderKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotRendered
		}
		return nil, fmt.Errorf("download render blob: %w", err)
	}

	return result, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if doc.RenderKey != nil {
		if delErr := r.storage.Delete(ctx, *doc.RenderKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *doc.RenderKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func buildRenderKey(id uuid.UUID) string {
	return fmt.Sprintf("renders/%s.pdf", id)
}
