package geoplaces

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"doggo-community/internal/domain/geo"
	"doggo-community/internal/platform/httpclient"
	"doggo-community/internal/ports/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	lastReq *http.Request
	status  int
	body    string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(f.body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestClient(t *testing.T, tr *fakeTransport) *Client {
	t.Helper()
	hc := httpclient.NewWithTransport(time.Second, tr)
	hc.BaseURL = "https://places.test"
	return New(hc, "test-key")
}

func TestClient_SearchNearby_OK(t *testing.T) {
	tr := &fakeTransport{
		status: http.StatusOK,
		body: `{"results":[
			{"id":"p1","name":"Parque Kennedy","category":"dog_park","lat":-12.12,"lng":-77.03,"address":"Miraflores","distance_m":120},
			{"id":"p2","name":"Vet Central","category":"vet","lat":-12.11,"lng":-77.02,"distance_m":450}
		]}`,
	}
	c := newTestClient(t, tr)

	got, err := c.SearchNearby(context.Background(), places.Query{
		Location: geo.Point{Lat: -12.12, Lng: -77.03},
		Category: "dog_park",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Parque Kennedy", got[0].Name)
	assert.Equal(t, -12.12, got[0].Location.Lat)
	assert.Equal(t, 120.0, got[0].DistanceM)

	// Query string y api key armados como espera el proveedor.
	require.NotNil(t, tr.lastReq)
	q := tr.lastReq.URL.Query()
	assert.Equal(t, "-12.12", q.Get("lat"))
	assert.Equal(t, "dog_park", q.Get("category"))
	assert.Equal(t, "2000", q.Get("radius"), "radius default")
	assert.Equal(t, "test-key", tr.lastReq.Header.Get("X-Api-Key"))
}

func TestClient_SearchNearby_ClampsRadiusAndLimit(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `{"results":[]}`}
	c := newTestClient(t, tr)

	_, err := c.SearchNearby(context.Background(), places.Query{
		Location: geo.Point{Lat: 1, Lng: 1},
		RadiusM:  999999,
		Limit:    500,
	})
	require.NoError(t, err)

	q := tr.lastReq.URL.Query()
	assert.Equal(t, "20000", q.Get("radius"))
	assert.Equal(t, "50", q.Get("limit"))
}

func TestClient_SearchNearby_InvalidLocation(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: http.StatusOK, body: `{}`})

	_, err := c.SearchNearby(context.Background(), places.Query{
		Location: geo.Point{Lat: 123, Lng: 0},
	})
	assert.ErrorIs(t, err, places.ErrInvalidQuery)
}

func TestClient_SearchNearby_UpstreamError(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: http.StatusBadGateway, body: `upstream down`})

	_, err := c.SearchNearby(context.Background(), places.Query{
		Location: geo.Point{Lat: 1, Lng: 1},
	})
	assert.ErrorIs(t, err, places.ErrUpstreamFailed)
}
