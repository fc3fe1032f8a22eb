package adapthttp

import (
	"fmt"
	"net/http"

	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
)

func (s *Server) handleMeasurementsList(w http.ResponseWriter, r *http.Request) {
	f := domain.MeasurementFilter{ExpandType: true}
	var err error
	if f.UserID, err = idQuery(r, "userId"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if f.MeasurementTypeID, err = idQuery(r, "typeId"); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch order := domain.SortOrder(r.URL.Query().Get("order")); order {
	case "", domain.SortAsc, domain.SortDesc:
		f.Order = order
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("order must be %q or %q", domain.SortAsc, domain.SortDesc))
		return
	}

	items, err := s.svc.Measurements.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleMeasurementsCreate(w http.ResponseWriter, r *http.Request) {
	var body app.MeasurementInput
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.svc.Measurements.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleMeasurementsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body app.MeasurementPatch
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.svc.Measurements.Update(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMeasurementsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.Measurements.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
