package domain

import (
	"github.com/golang/geo/s2"
)

// Point is a WGS-84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// MapView is the viewport that frames every location on the map.
type MapView struct {
	Center Point
	SW     Point // south-west corner
	NE     Point // north-east corner
	Empty  bool
}

// DeriveMapView computes the bounding rectangle of the locations and its centre.
// Locations at exactly 0,0 are treated as missing coordinates and skipped.
func DeriveMapView(locations []Location) MapView {
	rect := s2.EmptyRect()
	for _, l := range locations {
		if l.Latitude == 0 && l.Longitude == 0 {
			continue
		}
		rect = rect.AddPoint(s2.LatLngFromDegrees(l.Latitude, l.Longitude))
	}
	if rect.IsEmpty() {
		return MapView{Empty: true}
	}

	center := rect.Center()
	lo, hi := rect.Lo(), rect.Hi()
	return MapView{
		Center: Point{Lat: center.Lat.Degrees(), Lon: center.Lng.Degrees()},
		SW:     Point{Lat: lo.Lat.Degrees(), Lon: lo.Lng.Degrees()},
		NE:     Point{Lat: hi.Lat.Degrees(), Lon: hi.Lng.Degrees()},
	}
}
