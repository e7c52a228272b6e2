package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"doggo-community/internal/domain/events"
	"doggo-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes compone chat con events: solo participantes (o el
// creador) pueden leer y escribir el chat de un evento.
func RegisterRoutes(r chi.Router, svc *Service, eventsSvc *events.Service) {
	r.Route("/events/{eventID}/messages", func(cr chi.Router) {
		cr.Post("/", postMessageHandler(svc, eventsSvc))
		cr.Get("/", listMessagesHandler(svc, eventsSvc))
		cr.Get("/watch", watchMessagesHandler(svc, eventsSvc))
	})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

type messageResponse struct {
	ID       string    `json:"id"`
	EventID  string    `json:"event_id"`
	AuthorID string    `json:"author_id"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

// requireMember corta con 401/403/404 si el caller no puede ver el chat.
// Devuelve el userID cuando sí puede.
func requireMember(w http.ResponseWriter, r *http.Request, eventsSvc *events.Service) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	eventID := chi.URLParam(r, "eventID")
	isMember, err := eventsSvc.IsParticipant(r.Context(), eventID, claims.UserID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
		} else {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		}
		return "", false
	}
	if !isMember {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}

	return claims.UserID, true
}

func postMessageHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireMember(w, r, eventsSvc)
		if !ok {
			return
		}

		var req postMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Post(r.Context(), chi.URLParam(r, "eventID"), userID, req.Body)
		if err != nil {
			writeChatError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

func listMessagesHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireMember(w, r, eventsSvc); !ok {
			return
		}

		limit := 0
		if ls := r.URL.Query().Get("limit"); ls != "" {
			n, err := strconv.Atoi(ls)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListByEvent(r.Context(), chi.URLParam(r, "eventID"), limit)
		if err != nil {
			writeChatError(w, err)
			return
		}

		out := make([]messageResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMessageResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func watchMessagesHandler(svc *Service, eventsSvc *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireMember(w, r, eventsSvc); !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub, err := svc.Watch(r.Context(), chi.URLParam(r, "eventID"), 0)
		if err != nil {
			writeChatError(w, err)
			return
		}
		defer sub.Cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for snapshot := range sub.Updates() {
			out := make([]messageResponse, 0, len(snapshot))
			for _, m := range snapshot {
				out = append(out, toMessageResponse(m))
			}
			b, err := json.Marshal(out)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("data: " + string(b) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:       m.ID,
		EventID:  m.EventID,
		AuthorID: m.AuthorID,
		Body:     m.Body,
		SentAt:   m.SentAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
