package http

import (
	"net/http"

	"chitieu/internal/core"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSettingsResponse(s.tracker.Settings()))
}

// handleDashboard serves GET /api/dashboard?month=&year=&q=&group=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.tracker.Dashboard(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newDashboardResponse(d))
}

// handleYearly serves GET /api/yearly?year=. Search and group filters do
// not apply.
func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	y, err := s.tracker.Yearly(r.Context(), q.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newYearlyResponse(y))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.tracker.Categories(r.Context())
	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = newCategoryResponse(c)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleCategoryDetail serves one category's items for a period, newest
// first.
func (s *Server) handleCategoryDetail(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.tracker.CategoryDetail(r.Context(), r.PathValue("id"), q.Month, q.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newViewResponse(v))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readCategory(w, r)
	if !ok {
		return
	}
	c, err := s.tracker.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/categories/"+c.ID)
	writeJSON(w, r, http.StatusCreated, newCategoryResponse(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readCategory(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := s.tracker.UpdateCategory(r.Context(), id, in); err != nil {
		writeError(w, r, err)
		return
	}
	for _, c := range s.tracker.Categories(r.Context()) {
		if c.ID == id {
			writeJSON(w, r, http.StatusOK, newCategoryResponse(c))
			return
		}
	}
	// Deleted between the update and the read.
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteCategory removes a category and all of its items.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.tracker.AddExpenseItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newItemResponse(item))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.RemoveExpenseItem(r.Context(), r.PathValue("id"), r.PathValue("itemID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readCategory(w http.ResponseWriter, r *http.Request) (core.CategoryInput, bool) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return core.CategoryInput{}, false
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return core.CategoryInput{}, false
	}
	return in, true
}
