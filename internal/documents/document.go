// Package documents implements the document issuance domain. It provides
// types, data access, and business logic for issuing documents with their
// security specification, attaching rendered PDFs, and serving downloads.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/cividoc/cividoc/pkg/assembly"
	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/security"
)

// Document represents an issued document: the holder identity it was issued
// against, its computed security specification, and an optional reference to
// a rendered PDF in blob storage.
type Document struct {
	ID             uuid.UUID                  `json:"id"`
	DocumentNumber string                     `json:"document_number"`
	DocumentType   security.DocumentType      `json:"document_type"`
	Surname        string                     `json:"surname"`
	GivenNames     string                     `json:"given_names"`
	Nationality    string                     `json:"nationality"`
	DateOfBirth    time.Time                  `json:"date_of_birth"`
	Sex            string                     `json:"sex"`
	DateOfExpiry   time.Time                  `json:"date_of_expiry"`
	PersonalNumber string                     `json:"personal_number,omitempty"`
	Security       *assembly.DocumentSecurity `json:"security"`
	RenderKey      *string                    `json:"render_key,omitempty"`
	RenderPages    *int                       `json:"render_pages,omitempty"`
	Status         string                     `json:"status"`
	IssuedAt       time.Time                  `json:"issued_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// IssueCommand carries the holder identity and document type needed to
// issue a new document. BiometricRef is an opaque template handle; it is
// embedded in the barcode payload, never stored as raw biometric data.
type IssueCommand struct {
	DocumentNumber string
	DocumentType   security.DocumentType
	Surname        string
	GivenNames     string
	Nationality    string
	// IssuingState feeds the MRZ lines and lives only inside the stored
	// security record, so it is not addressable by list filters.
	IssuingState   string
	DateOfBirth    time.Time
	Sex            mrz.Sex
	DateOfExpiry   time.Time
	PersonalNumber string
	BiometricRef   string
}

// Record builds the MRZ identity record for the command. The document code
// is left empty so assembly derives it from the document type.
func (c IssueCommand) Record() mrz.Record {
	return mrz.Record{
		Surname:        c.Surname,
		GivenNames:     c.GivenNames,
		DocumentNumber: c.DocumentNumber,
		IssuingState:   c.IssuingState,
		Nationality:    c.Nationality,
		DateOfBirth:    c.DateOfBirth,
		Sex:            c.Sex,
		DateOfExpiry:   c.DateOfExpiry,
		PersonalNumber: c.PersonalNumber,
	}
}

// BatchResult reports the outcome of a single command within a batch issue.
// On success, Document is populated and Error is empty. On failure, Error
// describes the problem and Document is nil.
type BatchResult struct {
	Document       *Document `json:"document,omitempty"`
	DocumentNumber string    `json:"document_number"`
	Error          string    `json:"error,omitempty"`
}

// Document lifecycle states.
const (
	StatusIssued   = "issued"
	StatusRendered = "rendered"
)
