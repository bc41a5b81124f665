package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"chitieu/internal/aggregate"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to encode response", log.FieldError, err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Internal errors are logged and
// replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		msg = "internal error"
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

type itemResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Amount    int64  `json:"amount"`
	AmountVND string `json:"amount_vnd"`
	Date      string `json:"date"`
}

func newItemResponse(it core.ExpenseItem) itemResponse {
	return itemResponse{
		ID:        it.ID,
		Title:     it.Title,
		Amount:    it.Amount,
		AmountVND: core.FormatVND(it.Amount),
		Date:      it.Date.String(),
	}
}

type categoryResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Color          string         `json:"color"`
	Group          core.Group     `json:"group"`
	GroupKey       string         `json:"group_key"`
	Description    string         `json:"description,omitempty"`
	BaselineAmount int64          `json:"baseline_amount"`
	PeriodTotal    *int64         `json:"period_total,omitempty"`
	PeriodTotalVND string         `json:"period_total_vnd,omitempty"`
	ItemCount      int            `json:"item_count"`
	SkippedItems   int            `json:"skipped_items,omitempty"`
	Items          []itemResponse `json:"items"`
}

func newCategoryResponse(c core.Category) categoryResponse {
	items := make([]itemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = newItemResponse(it)
	}
	return categoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Color:          c.Color,
		Group:          c.Group,
		GroupKey:       c.Group.Key(),
		Description:    c.Description,
		BaselineAmount: c.BaselineAmount,
		ItemCount:      len(c.Items),
		Items:          items,
	}
}

// newViewResponse renders a period view; Items holds only the period items.
func newViewResponse(v aggregate.CategoryView) categoryResponse {
	items := make([]itemResponse, len(v.CurrentPeriodItems))
	for i, it := range v.CurrentPeriodItems {
		items[i] = newItemResponse(it)
	}
	total := v.PeriodTotal
	return categoryResponse{
		ID:             v.ID,
		Name:           v.Name,
		Color:          v.Color,
		Group:          v.Group,
		GroupKey:       v.Group.Key(),
		Description:    v.Description,
		BaselineAmount: v.BaselineAmount,
		PeriodTotal:    &total,
		PeriodTotalVND: core.FormatVND(total),
		ItemCount:      v.ItemCount,
		SkippedItems:   v.SkippedItems,
		Items:          items,
	}
}

type topCategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PeriodTotal int64  `json:"period_total"`
}

type sliceResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type groupTotalResponse struct {
	Group    core.Group `json:"group"`
	Key      string     `json:"key"`
	Total    int64      `json:"total"`
	TotalVND string     `json:"total_vnd"`
}

type dashboardResponse struct {
	Month         int                  `json:"month"`
	Year          int                  `json:"year"`
	Search        string               `json:"search"`
	Group         core.Group           `json:"group"`
	Total         int64                `json:"total"`
	TotalVND      string               `json:"total_vnd"`
	CategoryCount int                  `json:"category_count"`
	TopCategory   *topCategoryResponse `json:"top_category"`
	SkippedItems  int                  `json:"skipped_items"`
	Warning       string               `json:"warning,omitempty"`
	Pie           []sliceResponse      `json:"pie"`
	Groups        []groupTotalResponse `json:"groups"`
	Categories    []categoryResponse   `json:"categories"`
}

func newDashboardResponse(d aggregate.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Month:         d.Query.Month,
		Year:          d.Query.Year,
		Search:        d.Query.Search,
		Group:         d.Query.Group,
		Total:         d.Totals.Total,
		TotalVND:      core.FormatVND(d.Totals.Total),
		CategoryCount: d.Totals.CategoryCount,
		SkippedItems:  d.Totals.SkippedItems,
		Pie:           make([]sliceResponse, len(d.Pie)),
		Groups:        make([]groupTotalResponse, len(d.Groups)),
		Categories:    make([]categoryResponse, len(d.Categories)),
	}
	if warn := d.Totals.Warning(); warn != nil {
		resp.Warning = warn.Error()
	}
	if top := d.Totals.TopCategory; top != nil {
		resp.TopCategory = &topCategoryResponse{ID: top.ID, Name: top.Name, PeriodTotal: top.PeriodTotal}
	}
	for i, s := range d.Pie {
		resp.Pie[i] = sliceResponse(s)
	}
	for i, g := range d.Groups {
		resp.Groups[i] = groupTotalResponse{Group: g.Group, Key: g.Group.Key(), Total: g.Total, TotalVND: core.FormatVND(g.Total)}
	}
	for i, v := range d.Categories {
		resp.Categories[i] = newViewResponse(v)
	}
	return resp
}

type monthTotalResponse struct {
	Month    int    `json:"month"`
	Total    int64  `json:"total"`
	TotalVND string `json:"total_vnd"`
}

type yearlyResponse struct {
	Year         int                  `json:"year"`
	Months       []monthTotalResponse `json:"months"`
	Total        int64                `json:"total"`
	TotalVND     string               `json:"total_vnd"`
	SkippedItems int                  `json:"skipped_items"`
	Warning      string               `json:"warning,omitempty"`
}

func newYearlyResponse(y aggregate.Yearly) yearlyResponse {
	resp := yearlyResponse{
		Year:         y.Year,
		Months:       make([]monthTotalResponse, len(y.Months)),
		Total:        y.Total,
		TotalVND:     core.FormatVND(y.Total),
		SkippedItems: y.SkippedItems,
	}
	if warn := y.Warning(); warn != nil {
		resp.Warning = warn.Error()
	}
	for i, m := range y.Months {
		resp.Months[i] = monthTotalResponse{Month: m.Month, Total: m.Total, TotalVND: core.FormatVND(m.Total)}
	}
	return resp
}

type groupOption struct {
	Key  string     `json:"key"`
	Name core.Group `json:"name"`
}

type colorOption struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type settingsResponse struct {
	Groups       []groupOption `json:"groups"`
	AllGroups    groupOption   `json:"all_groups"`
	Colors       []colorOption `json:"colors"`
	DefaultColor string        `json:"default_color"`
	Months       []int         `json:"months"`
	Years        []int         `json:"years"`
}

func newSettingsResponse(s services.Settings) settingsResponse {
	resp := settingsResponse{
		Groups:       make([]groupOption, len(s.Groups)),
		AllGroups:    groupOption{Key: core.GroupAll.Key(), Name: core.GroupAll},
		Colors:       make([]colorOption, len(s.PresetColors)),
		DefaultColor: s.DefaultColor,
		Months:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Years:        s.Years,
	}
	for i, g := range s.Groups {
		resp.Groups[i] = groupOption{Key: g.Key(), Name: g}
	}
	for i, c := range s.PresetColors {
		resp.Colors[i] = colorOption{Name: c.Name, Hex: c.Hex}
	}
	return resp
}
