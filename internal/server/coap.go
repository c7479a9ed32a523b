package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	coap "github.com/plgd-dev/go-coap/v3"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
	"github.com/plgd-dev/go-coap/v3/mux"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/usecase"
)

// Reconciler triggers one inbound reconciliation round
type Reconciler interface {
	Run(ctx context.Context) (string, error)
}

// Relay forwards an outbound form-encoded payload to the chat API
type Relay interface {
	Send(ctx context.Context, payload string) error
}

// CoAPServer is the constrained-protocol front: /message relays outbound
// text, /update triggers a reconciliation round and answers with the
// compact change encoding.
type CoAPServer struct {
	addr       string
	relay      Relay
	reconciler Reconciler
}

// NewCoAPServer creates the CoAP front
func NewCoAPServer(addr string, relay Relay, reconciler Reconciler) *CoAPServer {
	return &CoAPServer{addr: addr, relay: relay, reconciler: reconciler}
}

// Start runs the UDP listener (blocking)
func (s *CoAPServer) Start() error {
	r := mux.NewRouter()
	r.Handle("/message", mux.HandlerFunc(s.handleMessage))
	r.Handle("/update", mux.HandlerFunc(s.handleUpdate))

	fmt.Printf("[CoAP] Listening on %s\n", s.addr)
	return coap.ListenAndServe("udp", s.addr, r)
}

func (s *CoAPServer) handleMessage(w mux.ResponseWriter, req *mux.Message) {
	defer s.recoverPanic(w)

	if req.Code() != codes.POST {
		s.respond(w, codes.MethodNotAllowed, "POST only")
		return
	}

	body, err := req.ReadBody()
	if err != nil || len(body) == 0 {
		s.respond(w, codes.BadRequest, "missing payload")
		return
	}

	err = s.relay.Send(req.Context(), string(body))
	switch {
	case errors.Is(err, usecase.ErrInvalidPayload):
		s.respond(w, codes.BadRequest, err.Error())
	case err != nil:
		// Upstream detail stays in the log; the constrained client
		// gets a generic status.
		fmt.Printf("[CoAP] relay failed: %v\n", err)
		s.respond(w, codes.BadGateway, "chat api error")
	default:
		s.respond(w, codes.Changed, "Message sent successfully")
	}
}

func (s *CoAPServer) handleUpdate(w mux.ResponseWriter, req *mux.Message) {
	defer s.recoverPanic(w)

	if req.Code() != codes.POST {
		s.respond(w, codes.MethodNotAllowed, "POST only")
		return
	}

	payload, err := s.reconciler.Run(req.Context())
	switch {
	case errors.Is(err, usecase.ErrUpstreamFetch):
		fmt.Printf("[CoAP] update fetch failed: %v\n", err)
		s.respond(w, codes.BadGateway, "chat api error")
	case err != nil:
		fmt.Printf("[CoAP] update failed: %v\n", err)
		s.respond(w, codes.InternalServerError, "internal server error")
	default:
		s.respond(w, codes.Content, payload)
	}
}

func (s *CoAPServer) respond(w mux.ResponseWriter, code codes.Code, payload string) {
	err := w.SetResponse(code, message.TextPlain, bytes.NewReader([]byte(payload)))
	if err != nil {
		log.Printf("[CoAP] failed to set response: %v", err)
	}
}

// recoverPanic maps any panic in a handler to a redacted server error;
// the full detail goes to the operational log only.
func (s *CoAPServer) recoverPanic(w mux.ResponseWriter) {
	if v := recover(); v != nil {
		log.Printf("[CoAP] panic in handler: %v", v)
		s.respond(w, codes.InternalServerError, "internal server error")
	}
}
