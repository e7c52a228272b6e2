package geoplaces

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"doggo-community/internal/platform/httpclient"
	"doggo-community/internal/ports/places"
)

const (
	defaultRadiusM = 2000
	maxRadiusM     = 20000
	defaultLimit   = 20
	maxLimit       = 50
)

// Client busca lugares pet-friendly contra una API externa de geocoding.
// El formato del request/response sigue el contrato genérico
// GET /v1/places?lat=..&lng=..&radius=..&category=..&limit=.. con api key
// por header.
type Client struct {
	http   *httpclient.Client
	apiKey string
}

func New(http *httpclient.Client, apiKey string) *Client {
	return &Client{http: http, apiKey: apiKey}
}

type searchResponse struct {
	Results []placeDTO `json:"results"`
}

type placeDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address"`
	DistanceM float64 `json:"distance_m"`
}

func (c *Client) SearchNearby(ctx context.Context, q places.Query) ([]places.Place, error) {
	if c == nil || c.http == nil {
		return nil, places.ErrNotConfigured
	}
	if !q.Location.Valid() {
		return nil, places.ErrInvalidQuery
	}

	radius := q.RadiusM
	if radius <= 0 {
		radius = defaultRadiusM
	}
	if radius > maxRadiusM {
		radius = maxRadiusM
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	vals := url.Values{}
	vals.Set("lat", strconv.FormatFloat(q.Location.Lat, 'f', -1, 64))
	vals.Set("lng", strconv.FormatFloat(q.Location.Lng, 'f', -1, 64))
	vals.Set("radius", strconv.Itoa(radius))
	vals.Set("limit", strconv.Itoa(limit))
	if cat := strings.TrimSpace(q.Category); cat != "" {
		vals.Set("category", cat)
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}

	var resp searchResponse
	if err := c.http.DoJSON(ctx, "GET", "/v1/places?"+vals.Encode(), headers, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", places.ErrUpstreamFailed, err)
	}

	out := make([]places.Place, 0, len(resp.Results))
	for _, d := range resp.Results {
		p := places.Place{
			ID:        d.ID,
			Name:      d.Name,
			Category:  d.Category,
			Address:   d.Address,
			DistanceM: d.DistanceM,
		}
		p.Location.Lat = d.Lat
		p.Location.Lng = d.Lng
		out = append(out, p)
	}
	return out, nil
}
