package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"neuroscent-quiz/internal/app"
	"neuroscent-quiz/internal/domain"
	"neuroscent-quiz/internal/view"

	"github.com/gorilla/websocket"
)

// ResultProvider serves computed results: a cache over the scoring
// service's read endpoint, seeded with fresh submissions.
type ResultProvider interface {
	GetResult(ctx context.Context, testID string) (domain.Result, error)
	Put(result domain.Result)
}

// WSHandler drives one quiz flow per websocket connection. The browser
// shell owns layout and navigation; it calls back in only through the
// answer/next/back/state messages.
type WSHandler struct {
	service  *app.QuizService
	results  ResultProvider
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, results ResultProvider) *WSHandler {
	return &WSHandler{
		service: service,
		results: results,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz flow.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	flowID := r.URL.Query().Get("flowId")
	if flowID == "" {
		http.Error(w, "missing flowId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	state, err := h.service.Start(flowID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	succeeded := false
	defer func() {
		if !succeeded {
			h.service.Release(flowID)
		}
	}()

	send <- outboundMessage[any]{Type: "question", Payload: state}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			state, err := h.service.Answer(flowID, payload.QuestionID, payload.Value)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: state}
		case "back":
			state, err := h.service.Back(flowID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: state}
		case "state":
			state, err := h.service.Current(flowID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: state}
		case "next":
			if h.handleNext(r.Context(), flowID, send) {
				succeeded = true
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

// handleNext runs one next transition, reporting submission progress over
// send. Returns true once the flow reached its terminal success state.
func (h *WSHandler) handleNext(ctx context.Context, flowID string, send chan<- outboundMessage[any]) bool {
	state, err := h.service.Current(flowID)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return false
	}

	// A blocked gate is a disabled-action state, not an error message.
	if !state.CanAdvance {
		send <- outboundMessage[any]{Type: "question", Payload: state}
		return false
	}

	if state.Index == state.Count-1 {
		send <- outboundMessage[any]{Type: "status", Payload: app.SubmissionStatus{State: app.StateSubmitting}}
	}

	status, result, err := h.service.Next(ctx, flowID)
	switch {
	case err == nil && result != nil:
		h.results.Put(*result)
		send <- outboundMessage[any]{Type: "status", Payload: status}
		send <- outboundMessage[any]{Type: "result", Payload: view.Build(*result)}
		return true
	case err == nil:
		state, stateErr := h.service.Current(flowID)
		if stateErr != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: stateErr.Error()}}
			return false
		}
		send <- outboundMessage[any]{Type: "question", Payload: state}
		return false
	default:
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) {
			// Retryable: cursor and answers are untouched, the shell may
			// send another next.
			send <- outboundMessage[any]{Type: "status", Payload: status}
			return false
		}
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return false
	}
}
