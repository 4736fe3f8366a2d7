package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": s.transactions(s.dashboard.Transactions(q)),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseCreateRequest(r)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	t, err := s.store.Add(r.Context(), in.Kind, in.Amount, in.Category, in.Description)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.transaction(t))
}

func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFieldError(w, http.StatusUnprocessableEntity, verr.Field, verr.Error())
	case errors.Is(err, store.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rejected transaction request",
			log.FieldOperation, log.OpCreate, log.FieldError, err)
		writeError(w, http.StatusBadRequest, "malformed request body")
	}
}

// handleDeleteTransaction answers 204 whether or not the id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"range":    rangeJSON{ID: q.Range.ID(), Label: q.Range.Label()},
		"category": q.Category,
		"totals":   s.totals(s.dashboard.Summary(q)),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonths(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"months": s.trend(s.dashboard.Trend(s.now(), months)),
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.breakdown(s.dashboard.Breakdown(s.now())),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.store.Categories(),
	})
}

func (s *Server) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown transaction type")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":       kind.String(),
		"categories": core.CategoriesFor(kind),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.dashboardView(s.cachedDashboard(q)))
}
