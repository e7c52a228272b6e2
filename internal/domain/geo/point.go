package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPoint = errors.New("invalid point")

// Point representa una coordenada geográfica simple (lat, lng).
type Point struct {
	Lat float64
	Lng float64
}

// Parse acepta el formato "lat,lng" que usa la app móvil
// (p.ej. "-12.0464,-77.0428").
func Parse(s string) (Point, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return Point{}, ErrInvalidPoint
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}

	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

func (p Point) String() string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(p.Lat, 'f', -1, 64),
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
	)
}
