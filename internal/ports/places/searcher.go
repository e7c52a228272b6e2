package places

import (
	"context"
	"errors"

	"doggo-community/internal/domain/geo"
)

var (
	ErrInvalidQuery   = errors.New("invalid query")
	ErrNotConfigured  = errors.New("places search not configured")
	ErrUpstreamFailed = errors.New("places upstream failed")
)

// Place es un lugar pet-friendly devuelto por el proveedor externo.
type Place struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Location  geo.Point `json:"location"`
	Address   string    `json:"address,omitempty"`
	DistanceM float64   `json:"distance_m"`
}

// Query define una búsqueda de lugares cercanos.
type Query struct {
	Location geo.Point
	RadiusM  int
	Category string
	Limit    int
}

// Searcher abstrae al proveedor de lugares (API externa, cache, etc).
type Searcher interface {
	SearchNearby(ctx context.Context, q Query) ([]Place, error)
}
