package adapthttp

import "net/http"

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := idQuery(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	page, err := s.svc.Progress.Page(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleProgressChart(w http.ResponseWriter, r *http.Request) {
	typeID, err := pathID(r, "typeId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	userID, err := idQuery(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	chart, err := s.svc.Progress.Chart(r.Context(), userID, typeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Progress.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
