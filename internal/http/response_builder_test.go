package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chitieu/internal/aggregate"
	"chitieu/internal/core"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", errBadRequest), http.StatusBadRequest},
		{fmt.Errorf("delete category: %w", core.ErrNotFound), http.StatusNotFound},
		{core.ErrEmptyName, http.StatusUnprocessableEntity},
		{core.ErrInvalidDate, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rr, r, errors.New("database on fire"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "internal error" {
		t.Fatalf("error = %q", resp.Error)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestNewDashboardResponse(t *testing.T) {
	cats := []core.Category{
		{ID: "a", Name: "Ăn sáng", Group: core.GroupFood, Items: []core.ExpenseItem{
			{ID: "1", Title: "Phở", Amount: 50000, Date: core.NewDate(2024, 3, 5)},
			{ID: "2", Title: "Lỗi", Amount: 1000},
		}},
		{ID: "b", Name: "Xem phim", Group: core.GroupEntertainment},
	}
	d := aggregate.BuildDashboard(cats, core.Query{Month: 3, Year: 2024, Group: core.GroupAll})
	resp := newDashboardResponse(d)

	if resp.Total != 50000 || resp.TopCategory == nil || resp.TopCategory.ID != "a" {
		t.Fatalf("totals = %+v top=%+v", resp.Total, resp.TopCategory)
	}
	if resp.SkippedItems != 1 || resp.Warning == "" {
		t.Fatalf("skipped=%d warning=%q", resp.SkippedItems, resp.Warning)
	}
	if len(resp.Groups) != len(core.Groups) || resp.Groups[0].Key != "food" || resp.Groups[0].Total != 50000 {
		t.Fatalf("groups = %+v", resp.Groups)
	}
	if len(resp.Categories) != 2 || resp.Categories[1].PeriodTotal == nil || *resp.Categories[1].PeriodTotal != 0 {
		t.Fatalf("categories = %+v", resp.Categories)
	}
}

func TestNewDashboardResponseEmpty(t *testing.T) {
	resp := newDashboardResponse(aggregate.BuildDashboard(nil, core.Query{Month: 1, Year: 2024}))

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["top_category"] != nil {
		t.Fatalf("top_category = %v, want null", raw["top_category"])
	}
	if pie, ok := raw["pie"].([]any); !ok || len(pie) != 0 {
		t.Fatalf("pie = %v, want empty array", raw["pie"])
	}
	if _, ok := raw["warning"]; ok {
		t.Fatalf("warning present without skipped items")
	}
}

func TestNewYearlyResponse(t *testing.T) {
	y := aggregate.YearlyBreakdown([]core.Category{{Items: []core.ExpenseItem{
		{Amount: 100, Date: core.NewDate(2024, 1, 1)},
		{Amount: 200, Date: core.NewDate(2024, 12, 31)},
	}}}, 2024)
	resp := newYearlyResponse(y)
	if len(resp.Months) != 12 || resp.Months[0].Total != 100 || resp.Months[11].Total != 200 || resp.Total != 300 {
		t.Fatalf("yearly = %+v", resp)
	}
	if resp.Months[11].Month != 12 {
		t.Fatalf("month numbering = %d", resp.Months[11].Month)
	}
}
