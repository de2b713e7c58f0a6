package http

import (
	"context"
	"net/http"
	"time"

	"rege/internal/auth"
	"rege/internal/log"
	"rege/internal/services"
	"rege/internal/storage"
)

// Server is the HTTP front door. Every /api route except the auth endpoints
// requires a bearer token.
type Server struct {
	http.Server

	auth      *auth.Service
	txs       *services.TransactionService
	assistant *services.AssistantService
	store     *storage.Store
	limiter   *rateLimiter
	logger    *log.Logger
	now       func() time.Time
}

func NewServer(addr string, authSvc *auth.Service, txs *services.TransactionService, assistant *services.AssistantService, store *storage.Store, ratePerMinute int, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		auth:      authSvc,
		txs:       txs,
		assistant: assistant,
		store:     store,
		limiter:   newRateLimiter(ratePerMinute),
		logger:    logger.WithComponent(log.ComponentHTTP),
		now:       func() time.Time { return time.Now().UTC() },
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.withCommon(s.handleSignUp))
	mux.HandleFunc("POST /api/auth/signin", s.withCommon(s.handleSignIn))
	mux.HandleFunc("GET /api/auth/me", s.withCommon(s.withAuth(s.handleMe)))
	mux.HandleFunc("PUT /api/auth/profile", s.withCommon(s.withAuth(s.handleUpdateProfile)))
	mux.HandleFunc("PUT /api/auth/password", s.withCommon(s.withAuth(s.handleChangePassword)))

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/categories", s.withCommon(s.withAuth(s.handleListCategories)))
	mux.HandleFunc("POST /api/categories", s.withCommon(s.withAuth(s.handleCreateCategory)))

	mux.HandleFunc("GET /api/summary", s.withCommon(s.withAuth(s.handleSummary)))
	mux.HandleFunc("GET /api/reports/{format}", s.withCommon(s.withAuth(s.handleReport)))

	mux.HandleFunc("POST /api/ai/parse", s.withCommon(s.withAuth(s.handleParse)))
	mux.HandleFunc("POST /api/ai/chat", s.withCommon(s.withAuth(s.handleChat)))
	mux.HandleFunc("GET /api/ai/tips", s.withCommon(s.withAuth(s.handleTips)))
	mux.HandleFunc("GET /api/quote", s.withCommon(s.withAuth(s.handleQuote)))

	return s
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
