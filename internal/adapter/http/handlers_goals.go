package adapthttp

import (
	"net/http"

	"bodymetrics/internal/domain"
)

func (s *Server) handleGoalsList(w http.ResponseWriter, r *http.Request) {
	var (
		f   domain.GoalFilter
		err error
	)
	if f.UserID, err = idQuery(r, "userId"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if f.MeasurementTypeID, err = idQuery(r, "typeId"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.svc.Goals.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGoalsCreate(w http.ResponseWriter, r *http.Request) {
	var body domain.Goal
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, err := s.svc.Goals.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGoalsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body domain.Goal
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, err := s.svc.Goals.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGoalsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.Goals.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
