package domain

import "fmt"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Squared Euclidean distance in lon/lat space. Good enough for ranking
// nearby vertices; not a geodesic distance.
func (c Coordinates) SquaredDistance(o Coordinates) float64 {
	dLon := c.Lon - o.Lon
	dLat := c.Lat - o.Lat
	return dLon*dLon + dLat*dLat
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}
