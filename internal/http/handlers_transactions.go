package http

import (
	"net/http"
	"strconv"
	"strings"

	"rege/internal/core"
)

type transactionJSON struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Amount   core.Money `json:"amount_cents"`
	Kind     core.Kind  `json:"kind"`
	Category string     `json:"category"`
	Date     core.Date  `json:"date"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:       tx.ID,
		Title:    tx.Title,
		Amount:   tx.Amount,
		Kind:     tx.Kind,
		Category: tx.Category,
		Date:     tx.Date,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	window := core.ParseWindow(r.URL.Query().Get("window"))
	txs, err := s.txs.List(r.Context(), userID(r.Context()), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

type createTransactionRequest struct {
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"` // decimal string, used when amount_cents is absent
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	cents := req.AmountCents
	if cents == 0 && strings.TrimSpace(req.Amount) != "" {
		parsed, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		cents = parsed
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := core.Transaction{
		Title:    strings.TrimSpace(req.Title),
		Amount:   core.Money{Cents: cents},
		Kind:     kind,
		Category: req.Category,
		Date:     date,
	}
	if err := tx.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.txs.Create(r.Context(), userID(r.Context()), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid transaction id")
		return
	}
	if err := s.txs.Delete(r.Context(), userID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.txs.Categories(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type createCategoryRequest struct {
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Kind     string `json:"kind"`
	ColorHex string `json:"color_hex"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	category, err := s.txs.CreateCategory(r.Context(), userID(r.Context()), req.Label, req.Icon, kind, req.ColorHex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}
