package lostpets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"doggo-community/internal/domain/geo"
	"doggo-community/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/lostpets", func(lr chi.Router) {
		lr.Post("/", createReportHandler(svc))
		lr.Get("/", listReportsHandler(svc))
		lr.Get("/watch", watchReportsHandler(svc))

		lr.Get("/{reportID}", getReportHandler(svc))
		lr.Put("/{reportID}", updateReportHandler(svc))
		lr.Delete("/{reportID}", deleteReportHandler(svc))

		// Toggle del dueño: {"found": true|false}
		lr.Post("/{reportID}/found", setFoundHandler(svc))
	})
}

type reportRequest struct {
	PetName     string `json:"pet_name"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
	LastSeenAt  string `json:"last_seen_at"` // RFC3339
	Location    string `json:"location"`     // "lat,lng"
}

type reportResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	PetName     string    `json:"pet_name"`
	Breed       string    `json:"breed"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Found       bool      `json:"found"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (req reportRequest) toInput() (ReportInput, error) {
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.LastSeenAt))
	if err != nil {
		return ReportInput{}, errors.New("last_seen_at must be RFC3339")
	}
	loc, err := geo.Parse(req.Location)
	if err != nil {
		return ReportInput{}, errors.New(`location must be "lat,lng"`)
	}
	return ReportInput{
		PetName:     req.PetName,
		Breed:       req.Breed,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		LastSeenAt:  at,
		Location:    loc,
	}, nil
}

func createReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

func listReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filterFromQuery(r)

		items, err := svc.List(r.Context(), f)
		if err != nil {
			writeReportError(w, err)
			return
		}

		out := make([]reportResponse, 0, len(items))
		for _, rep := range items {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func updateReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rep, err := svc.Update(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, in)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func deleteReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), chi.URLParam(r, "reportID"), claims.UserID); err != nil {
			writeReportError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req struct {
			Found bool `json:"found"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rep, err := svc.SetFound(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, req.Found)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func watchReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub, err := svc.Watch(r.Context(), filterFromQuery(r))
		if err != nil {
			writeReportError(w, err)
			return
		}
		defer sub.Cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for snapshot := range sub.Updates() {
			out := make([]reportResponse, 0, len(snapshot))
			for _, rep := range snapshot {
				out = append(out, toReportResponse(rep))
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

func filterFromQuery(r *http.Request) ListFilter {
	f := ListFilter{
		OwnerID: r.URL.Query().Get("owner"),
		// Default de la app: el mapa muestra solo avisos abiertos.
		OnlyOpen: r.URL.Query().Get("status") != "all",
	}
	return f
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toReportResponse(rep Report) reportResponse {
	return reportResponse{
		ID:          rep.ID,
		OwnerID:     rep.OwnerID,
		PetName:     rep.PetName,
		Breed:       rep.Breed,
		Description: rep.Description,
		PhotoURL:    rep.PhotoURL,
		LastSeenAt:  rep.LastSeenAt,
		Lat:         rep.Location.Lat,
		Lng:         rep.Location.Lng,
		Found:       rep.Found,
		CreatedAt:   rep.CreatedAt,
		UpdatedAt:   rep.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
