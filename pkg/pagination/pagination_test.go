package pagination_test

import (
	"net/url"
	"testing"

	"github.com/cividoc/cividoc/pkg/pagination"
)

func testConfig() pagination.Config {
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	return cfg
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid", pagination.PageRequest{Page: 3, PageSize: 50}, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig())
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"25"},
		"search":    {"DOE"},
		"sort":      {"surname,-issued_at"},
	}

	req := pagination.FromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 25 {
		t.Errorf("page/size = %d/%d, want 2/25", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "DOE" {
		t.Errorf("Search = %v, want DOE", req.Search)
	}
	if len(req.Sort) != 2 {
		t.Fatalf("Sort length = %d, want 2", len(req.Sort))
	}
	if req.Sort[1].Field != "issued_at" || !req.Sort[1].Descending {
		t.Errorf("Sort[1] = %+v, want descending issued_at", req.Sort[1])
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"even division", 100, 20, 5},
		{"remainder", 101, 20, 6},
		{"empty", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		result := pagination.NewPageResult[string](nil, 0, 1, 20)
		if result.Data == nil {
			t.Error("Data = nil, want empty slice")
		}
	})
}
