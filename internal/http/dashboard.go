package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Clark-Hu/genre-dashboard/internal/dashboard"
	"github.com/Clark-Hu/genre-dashboard/internal/domain"
	"github.com/Clark-Hu/genre-dashboard/internal/logger"
	"github.com/Clark-Hu/genre-dashboard/internal/render"
)

// yearParam carries the dropdown value on every dashboard route. A missing value means ALL.
const yearParam = "year"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type yearOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"-"`
}

type yearsResponse struct {
	Years   []int        `json:"years"`
	Options []yearOption `json:"options"`
	Genres  []string     `json:"genres"`
}

type summaryResponse struct {
	Scope   string                 `json:"scope"`
	Rows    []domain.GenreYearStat `json:"rows"`
	Dropped int                    `json:"dropped"`
}

type indexPage struct {
	Movies    int
	Genres    int
	FirstYear int
	LastYear  int
	Options   []yearOption
	Selected  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selector(w, r)
	if !ok {
		return
	}
	if err := s.snapshot.Check(sel); err != nil {
		s.respondDashboardError(w, r, err)
		return
	}

	page := indexPage{
		Movies:   s.snapshot.Len(),
		Genres:   s.snapshot.Vocabulary().Len(),
		Options:  s.options(sel),
		Selected: sel.Value(),
	}
	if years := s.snapshot.Years(); len(years) > 0 {
		page.FirstYear = years[0]
		page.LastYear = years[len(years)-1]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", page); err != nil {
		logger.FromCtx(r.Context()).Errorw("render index", "error", err)
	}
}

func (s *Server) handleChartsPage(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selector(w, r)
	if !ok {
		return
	}
	set, ok := s.render(w, r, sel)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(set, s.snapshot.Vocabulary()).Render(w); err != nil {
		logger.FromCtx(r.Context()).Errorw("render charts", "error", err, "scope", sel.Value())
	}
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, yearsResponse{
		Years:   s.snapshot.Years(),
		Options: s.options(domain.All()),
		Genres:  s.snapshot.Vocabulary().Genres(),
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selector(w, r)
	if !ok {
		return
	}
	set, ok := s.render(w, r, sel)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selector(w, r)
	if !ok {
		return
	}
	rows, err := s.snapshot.Stats(sel)
	if err != nil {
		s.respondDashboardError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.GenreYearStat{}
	}
	s.respondJSON(w, http.StatusOK, summaryResponse{
		Scope:   sel.Value(),
		Rows:    rows,
		Dropped: s.snapshot.Dropped(),
	})
}

func (s *Server) selector(w http.ResponseWriter, r *http.Request) (domain.YearSelector, bool) {
	sel, err := domain.ParseYearSelector(r.URL.Query().Get(yearParam))
	if err != nil {
		s.respondDashboardError(w, r, err)
		return domain.YearSelector{}, false
	}
	return sel, true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sel domain.YearSelector) (domain.ChartSet, bool) {
	set, err := dashboard.Render(s.snapshot, sel, s.opts)
	if err != nil {
		s.respondDashboardError(w, r, err)
		return domain.ChartSet{}, false
	}
	return set, true
}

func (s *Server) options(selected domain.YearSelector) []yearOption {
	sels := s.snapshot.Options()
	out := make([]yearOption, 0, len(sels))
	for _, sel := range sels {
		out = append(out, yearOption{
			Value:    sel.Value(),
			Label:    sel.Label(),
			Selected: sel == selected,
		})
	}
	return out
}

func (s *Server) respondDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSelector):
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, dashboard.ErrUnknownYear):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		logger.FromCtx(r.Context()).Errorw("dashboard request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to prepare charts")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Errorw("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Code: code, Message: message})
}
