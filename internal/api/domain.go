package api

import (
	"github.com/cividoc/cividoc/internal/documents"
	"github.com/cividoc/cividoc/internal/verification"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents    documents.System
	Verification *verification.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Signer,
		runtime.Metrics,
		runtime.Logger,
		runtime.Pagination,
	)

	verificationHandler := verification.NewHandler(
		runtime.Signer,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Documents:    docsSystem,
		Verification: verificationHandler,
	}
}
