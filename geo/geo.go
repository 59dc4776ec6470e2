// Package geo converts between geodetic coordinates and the local Cartesian
// frame used by the planner.
//
// The local frame is anchored at a single geodetic home reference and laid
// out as [north_delta, east_delta, up_delta] in meters. Conversion goes
// through UTM: both the home point and the target point are projected, and
// the frame is the difference of their easting/northing. Altitude never
// passes through the projection; up_delta is plain altitude minus home
// altitude.
//
// Known limitation: each point is projected in the zone derived from its own
// longitude, so a point and a home that straddle a UTM zone boundary produce
// a discontinuous delta. This is not corrected; keep the planning volume
// inside one zone.
package geo

import (
	"fmt"

	"github.com/im7mortal/UTM"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a geodetic coordinate. Lon and Lat are degrees, Alt is meters
// above the home datum.
type Point struct {
	Lon float64
	Lat float64
	Alt float64
}

// ToLocal converts p into the local frame anchored at home, returning
// [north_delta, east_delta, up_delta] in meters.
func ToLocal(p, home Point) (r3.Vec, error) {
	eastingH, northingH, _, _, err := UTM.FromLatLon(home.Lat, home.Lon, home.Lat >= 0)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("geo: project home (%v, %v): %w", home.Lat, home.Lon, err)
	}
	easting, northing, _, _, err := UTM.FromLatLon(p.Lat, p.Lon, p.Lat >= 0)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("geo: project point (%v, %v): %w", p.Lat, p.Lon, err)
	}
	return r3.Vec{
		X: northing - northingH,
		Y: easting - eastingH,
		Z: p.Alt - home.Alt,
	}, nil
}

// ToGlobal converts a local-frame position back to geodetic coordinates. It
// is the exact inverse of ToLocal for positions within home's UTM zone: the
// offset easting/northing is un-projected with home's zone number and letter,
// and altitude is home.Alt + local.Z.
func ToGlobal(local r3.Vec, home Point) (Point, error) {
	eastingH, northingH, zoneNumber, zoneLetter, err := UTM.FromLatLon(home.Lat, home.Lon, home.Lat >= 0)
	if err != nil {
		return Point{}, fmt.Errorf("geo: project home (%v, %v): %w", home.Lat, home.Lon, err)
	}
	lat, lon, err := UTM.ToLatLon(eastingH+local.Y, northingH+local.X, zoneNumber, zoneLetter)
	if err != nil {
		return Point{}, fmt.Errorf("geo: unproject local %v: %w", local, err)
	}
	return Point{Lon: lon, Lat: lat, Alt: home.Alt + local.Z}, nil
}
