package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/usecase"
)

// HTTPServer is the plain-HTTP front. It mirrors the CoAP resources for
// clients without a CoAP stack: JSON send endpoint, update trigger, a
// websocket send channel, health and metrics.
type HTTPServer struct {
	addr       string
	messages   repo.MessageRepo
	reconciler Reconciler
	archive    repo.ArchiveRepo

	srv      *http.Server
	upgrader websocket.Upgrader
}

type sendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// NewHTTPServer creates the HTTP front
func NewHTTPServer(addr string, messages repo.MessageRepo, reconciler Reconciler, archive repo.ArchiveRepo) *HTTPServer {
	return &HTTPServer{
		addr:       addr,
		messages:   messages,
		reconciler: reconciler,
		archive:    archive,
	}
}

// Start runs the HTTP listener (blocking)
func (s *HTTPServer) Start() error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.router()}
	fmt.Printf("[HTTP] Listening on %s\n", s.addr)
	return s.srv.ListenAndServe()
}

func (s *HTTPServer) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post("/send_message/", s.handleSendMessage)
	r.Get("/get_updates", s.handleGetUpdates)
	r.Get("/ws", s.handleWS)
	r.Get("/archive/recent", s.handleArchiveRecent)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Shutdown stops the HTTP listener
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid json body"})
		return
	}
	if req.ChatID == "" || req.Text == "" {
		s.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "missing chat_id or text"})
		return
	}

	if err := s.messages.SendText(r.Context(), req.ChatID, req.Text); err != nil {
		fmt.Printf("[HTTP] send failed: %v\n", err)
		s.writeJSON(w, http.StatusBadGateway, statusResponse{Status: "error", Message: "chat api error"})
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (s *HTTPServer) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	payload, err := s.reconciler.Run(r.Context())
	switch {
	case errors.Is(err, usecase.ErrUpstreamFetch):
		s.writeJSON(w, http.StatusBadGateway, statusResponse{Status: "error", Message: "chat api error"})
	case err != nil:
		fmt.Printf("[HTTP] update failed: %v\n", err)
		s.writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal server error"})
	default:
		s.writeJSON(w, http.StatusOK, statusResponse{Status: "success", Payload: payload})
	}
}

// handleWS serves the websocket send channel: the client streams
// {chat_id, text} objects and gets a status object back per message.
func (s *HTTPServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HTTP] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req sendRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		resp := statusResponse{Status: "success"}
		if req.ChatID == "" || req.Text == "" {
			resp = statusResponse{Status: "error", Message: "missing chat_id or text"}
		} else if err := s.messages.SendText(r.Context(), req.ChatID, req.Text); err != nil {
			fmt.Printf("[HTTP] websocket send failed: %v\n", err)
			resp = statusResponse{Status: "error", Message: "chat api error"}
		}

		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *HTTPServer) handleArchiveRecent(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "archive disabled"})
		return
	}

	msgs, err := s.archive.Recent(r.Context(), 50)
	if err != nil {
		fmt.Printf("[HTTP] archive query failed: %v\n", err)
		s.writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal server error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(msgs)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body statusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
