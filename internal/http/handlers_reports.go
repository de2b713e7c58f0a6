package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"rege/internal/core"
	"rege/internal/log"
	"rege/internal/report"
)

var reportContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	contentType, ok := reportContentTypes[format]
	if !ok {
		badRequest(w, "unknown report format")
		return
	}

	ctx := r.Context()
	uid := userID(ctx)
	window := core.ParseWindow(r.URL.Query().Get("window"))

	txs, err := s.txs.List(ctx, uid, window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.txs.Categories(ctx, uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := report.BuildRows(txs, categories)
	var buf bytes.Buffer
	switch format {
	case "pdf":
		err = report.WritePDF(&buf, rows, window.Label())
	case "csv":
		err = report.WriteCSV(&buf, rows)
	case "xlsx":
		err = report.WriteXLSX(&buf, rows)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "report exported",
		log.FieldUserID, uid,
		log.FieldFormat, format,
		log.FieldWindow, string(window))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(format, s.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
