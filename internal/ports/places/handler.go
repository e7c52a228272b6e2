package places

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"doggo-community/internal/domain/geo"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone la búsqueda de lugares. El handler vive junto al
// port porque no hay lógica de dominio propia: es un passthrough al
// Searcher configurado. Con searcher nil el endpoint responde 503.
func RegisterRoutes(r chi.Router, searcher Searcher) {
	r.Get("/places/nearby", nearbyHandler(searcher))
}

type nearbyResponse struct {
	Places []placeResponse `json:"places"`
}

type placeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address,omitempty"`
	DistanceM float64 `json:"distance_m"`
}

func nearbyHandler(searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if searcher == nil {
			http.Error(w, "places search not configured", http.StatusServiceUnavailable)
			return
		}

		at, err := geo.Parse(r.URL.Query().Get("at"))
		if err != nil {
			http.Error(w, "invalid 'at' coordinate, expected lat,lng", http.StatusBadRequest)
			return
		}

		q := Query{Location: at, Category: r.URL.Query().Get("category")}
		if raw := r.URL.Query().Get("radius_m"); raw != "" {
			q.RadiusM, _ = strconv.Atoi(raw)
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			q.Limit, _ = strconv.Atoi(raw)
		}

		found, err := searcher.SearchNearby(r.Context(), q)
		if err != nil {
			writePlacesError(w, err)
			return
		}

		out := nearbyResponse{Places: make([]placeResponse, 0, len(found))}
		for _, p := range found {
			out.Places = append(out.Places, placeResponse{
				ID:        p.ID,
				Name:      p.Name,
				Category:  p.Category,
				Lat:       p.Location.Lat,
				Lng:       p.Location.Lng,
				Address:   p.Address,
				DistanceM: p.DistanceM,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}

func writePlacesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ErrUpstreamFailed):
		http.Error(w, "places upstream failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
