package http

import (
	"net/http"

	"rege/internal/core"
)

type summaryResponse struct {
	Window      core.Window `json:"window"`
	WindowLabel string      `json:"window_label"`
	core.Summary
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window := core.ParseWindow(r.URL.Query().Get("window"))
	summary, err := s.txs.Summary(r.Context(), userID(r.Context()), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Window:      window,
		WindowLabel: window.Label(),
		Summary:     summary,
	})
}
