package dto

import (
	"encoding/json"

	"github.com/SscSPs/medisave/internal/core/domain"
)

// CategoryResponse describes a category for display.
type CategoryResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// CategoryTotalResponse is one row of the category breakdown.
type CategoryTotalResponse struct {
	Category string      `json:"category"`
	Label    string      `json:"label"`
	Color    string      `json:"color"`
	Total    json.Number `json:"total" swaggertype:"number"`
}

// SummaryResponse is the aggregate view used by the dashboard and reports.
type SummaryResponse struct {
	GrandTotal     json.Number             `json:"grandTotal" swaggertype:"number"`
	FilteredTotal  json.Number             `json:"filteredTotal" swaggertype:"number"`
	RecordCount    int                     `json:"recordCount"`
	CategoryTotals []CategoryTotalResponse `json:"categoryTotals"`
	Chart          []CategoryTotalResponse `json:"chart"`
}

func ToCategoryResponse(d domain.CategoryDescriptor) CategoryResponse {
	return CategoryResponse{
		ID:          string(d.ID),
		DisplayName: d.DisplayName,
		Icon:        d.Icon,
		Color:       d.Color,
	}
}

func toCategoryTotals(totals []domain.CategoryTotal) []CategoryTotalResponse {
	res := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		desc := domain.DescribeCategory(t.Category)
		res[i] = CategoryTotalResponse{
			Category: string(t.Category),
			Label:    desc.DisplayName,
			Color:    desc.Color,
			Total:    AmountNumber(t.Total),
		}
	}
	return res
}

// ToSummaryResponse converts a domain summary to its response form.
func ToSummaryResponse(s domain.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		GrandTotal:     AmountNumber(s.GrandTotal),
		FilteredTotal:  AmountNumber(s.FilteredTotal),
		RecordCount:    s.RecordCount,
		CategoryTotals: toCategoryTotals(s.CategoryTotals),
		Chart:          toCategoryTotals(s.Chart),
	}
}
