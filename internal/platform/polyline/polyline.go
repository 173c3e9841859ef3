// Package polyline converts route geometry to and from Google encoded
// polylines at 1e-6 precision ("polyline6"), the format OSRM emits.
package polyline

import (
	"fmt"
	"hos-route-service/internal/domain"

	gopolyline "github.com/twpayne/go-polyline"
)

var codec = gopolyline.Codec{Dim: 2, Scale: 1e6}

// Decode parses an encoded polyline. Encoded pairs are [lat, lon].
func Decode(s string) ([]domain.Coordinates, error) {
	coords, rest, err := codec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.Coordinates{Lon: c[1], Lat: c[0]})
	}
	return out, nil
}

func Encode(geometry []domain.Coordinates) string {
	coords := make([][]float64, 0, len(geometry))
	for _, c := range geometry {
		coords = append(coords, []float64{c.Lat, c.Lon})
	}
	return string(codec.EncodeCoords(nil, coords))
}
