package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"doggo-community/internal/domain/geo"
	"doggo-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra las rutas de eventos. onDeleted (opcional) se
// invoca tras un borrado exitoso; el router cuelga ahí la limpieza del
// chat del evento, sin acoplar este paquete al de chat.
func RegisterRoutes(r chi.Router, svc *Service, onDeleted func(ctx context.Context, eventID string)) {
	r.Route("/events", func(er chi.Router) {
		er.Post("/", createEventHandler(svc))
		er.Get("/", listEventsHandler(svc))

		// Stream SSE: snapshot completo del listado en cada cambio.
		er.Get("/watch", watchEventsHandler(svc))

		er.Get("/{eventID}", getEventHandler(svc))
		er.Put("/{eventID}", updateEventHandler(svc))
		er.Delete("/{eventID}", deleteEventHandler(svc, onDeleted))

		er.Post("/{eventID}/join", joinEventHandler(svc))
		er.Post("/{eventID}/leave", leaveEventHandler(svc))
	})
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
	Location    string `json:"location"`     // "lat,lng" (igual que la app)
	Capacity    int    `json:"capacity"`
}

type eventResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Kind         string    `json:"kind"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	CreatorID    string    `json:"creator_id"`
	Capacity     int       `json:"capacity"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (req eventRequest) toInput() (CreateInput, error) {
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return CreateInput{}, errors.New("scheduled_at must be RFC3339")
	}
	loc, err := geo.Parse(req.Location)
	if err != nil {
		return CreateInput{}, errors.New(`location must be "lat,lng"`)
	}
	return CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        Kind(req.Kind),
		ScheduledAt: at,
		Location:    loc,
		Capacity:    req.Capacity,
	}, nil
}

func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req eventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeEventError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListUpcoming(r.Context(), f)
		if err != nil {
			writeEventError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req eventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), claims.UserID, in)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func deleteEventHandler(svc *Service, onDeleted func(ctx context.Context, eventID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		eventID := chi.URLParam(r, "eventID")
		if err := svc.Delete(r.Context(), eventID, claims.UserID); err != nil {
			writeEventError(w, err)
			return
		}
		if onDeleted != nil {
			// Limpieza best-effort; el evento ya no existe igual.
			onDeleted(r.Context(), eventID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func joinEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		e, err := svc.Join(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func leaveEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		e, err := svc.Leave(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// watchEventsHandler transmite por SSE el listado completo en cada cambio.
// Cortar el request (ctx) cancela la suscripción y libera recursos.
func watchEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		f, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sub, err := svc.Watch(r.Context(), f)
		if err != nil {
			writeEventError(w, err)
			return
		}
		defer sub.Cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for snapshot := range sub.Updates() {
			out := make([]eventResponse, 0, len(snapshot))
			for _, e := range snapshot {
				out = append(out, toEventResponse(e))
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

func filterFromQuery(r *http.Request) (Filter, error) {
	f := Filter{
		CreatorID: r.URL.Query().Get("creator"),
		Kind:      Kind(strings.TrimSpace(r.URL.Query().Get("kind"))),
		// Default de la app: listar solo lo que viene (status=open).
		OnlyOpen: true,
	}
	if st := r.URL.Query().Get("status"); st != "" {
		switch st {
		case "open":
			f.OnlyOpen = true
		case "all":
			f.OnlyOpen = false
		default:
			return Filter{}, errors.New("status must be open|all")
		}
	}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n < 0 {
			return Filter{}, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "event not found", http.StatusNotFound)
	case errors.Is(err, ErrCapacityFull):
		http.Error(w, "event is full", http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Kind:         string(e.Kind),
		ScheduledAt:  e.ScheduledAt,
		Lat:          e.Location.Lat,
		Lng:          e.Location.Lng,
		CreatorID:    e.CreatorID,
		Capacity:     e.Capacity,
		Participants: e.Participants,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
