package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/cividoc/cividoc/pkg/pagination"
	"github.com/cividoc/cividoc/pkg/storage"
)

// RenderUpload carries a rendered PDF to attach to an issued document.
type RenderUpload struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   int
}

// System defines the public contract for document issuance operations.
type System interface {
	Handler(maxUploadSize int64, maxBatchSize int) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Issue(ctx context.Context, cmd IssueCommand) (*Document, error)
	IssueBatch(ctx context.Context, cmds []IssueCommand) []BatchResult
	AttachRender(ctx context.Context, id uuid.UUID, upload RenderUpload) (*Document, error)
	Download(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
