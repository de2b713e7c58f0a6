package http

import (
	"net/http"
	"strings"

	"rege/internal/core"
)

type parseRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.ImageBase64 == "" {
		badRequest(w, "text or image required")
		return
	}
	draft, err := s.assistant.ParseTransaction(r.Context(), req.Text, req.ImageBase64)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type chatRequest struct {
	Message string `json:"message"`
	History []struct {
		Role string `json:"role"`
		Text string `json:"text"`
	} `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message required")
		return
	}
	history := make([]core.ChatMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, core.ChatMessage{Role: m.Role, Text: m.Text})
	}
	reply := s.assistant.Chat(r.Context(), userID(r.Context()), history, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type tipsResponse struct {
	Tips string `json:"tips"`
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	window := core.ParseWindow(r.URL.Query().Get("window"))
	tips, err := s.assistant.Tips(r.Context(), userID(r.Context()), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tipsResponse{Tips: tips})
}

type quoteResponse struct {
	Quote string `json:"quote"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote := s.assistant.DailyQuote(r.Context(), userID(r.Context()))
	writeJSON(w, http.StatusOK, quoteResponse{Quote: quote})
}
