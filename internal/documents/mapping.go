package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cividoc/cividoc/pkg/query"
	"github.com/cividoc/cividoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("document_number", "DocumentNumber").
	Project("document_type", "DocumentType").
	Project("surname", "Surname").
	Project("given_names", "GivenNames").
	Project("nationality", "Nationality").
	Project("date_of_birth", "DateOfBirth").
	Project("sex", "Sex").
	Project("date_of_expiry", "DateOfExpiry").
	Project("personal_number", "PersonalNumber").
	Project("security", "Security").
	Project("render_key", "RenderKey").
	Project("render_pages", "RenderPages").
	Project("status", "Status").
	Project("issued_at", "IssuedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "IssuedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. DocumentType, Status, Nationality, and Sex use
// exact matching. DocumentNumber and Surname use case-insensitive contains
// matching.
type Filters struct {
	DocumentType   *string `json:"document_type,omitempty"`
	Status         *string `json:"status,omitempty"`
	Nationality    *string `json:"nationality,omitempty"`
	Sex            *string `json:"sex,omitempty"`
	DocumentNumber *string `json:"document_number,omitempty"`
	Surname        *string `json:"surname,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("Status", f.Status).
		WhereEquals("Nationality", f.Nationality).
		WhereEquals("Sex", f.Sex).
		WhereContains("DocumentNumber", f.DocumentNumber).
		WhereContains("Surname", f.Surname)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if n := values.Get("nationality"); n != "" {
		f.Nationality = &n
	}

	if sx := values.Get("sex"); sx != "" {
		f.Sex = &sx
	}

	if dn := values.Get("document_number"); dn != "" {
		f.DocumentNumber = &dn
	}

	if sn := values.Get("surname"); sn != "" {
		f.Surname = &sn
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d        Document
		security []byte
	)

	err := s.Scan(
		&d.ID,
		&d.DocumentNumber,
		&d.DocumentType,
		&d.Surname,
		&d.GivenNames,
		&d.Nationality,
		&d.DateOfBirth,
		&d.Sex,
		&d.DateOfExpiry,
		&d.PersonalNumber,
		&security,
		&d.RenderKey,
		&d.RenderPages,
		&d.Status,
		&d.IssuedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}

	if len(security) > 0 {
		if err := json.Unmarshal(security, &d.Security); err != nil {
			return d, fmt.Errorf("decode security column: %w", err)
		}
	}

	return d, nil
}
