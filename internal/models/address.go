package models

import "strings"

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is embedded into users, donation items and requests. The position is
// stored as two nullable columns so an address can exist before it is geocoded.
type Address struct {
	Street    string   `gorm:"size:255" json:"street"`
	City      string   `gorm:"size:100" json:"city"`
	Postcode  string   `gorm:"size:20" json:"postcode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Coordinates returns nil when the address has not been geocoded.
func (a Address) Coordinates() *Coordinates {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *a.Latitude, Longitude: *a.Longitude}
}

// SetCoordinates stores c on the address; nil clears it.
func (a *Address) SetCoordinates(c *Coordinates) {
	if c == nil {
		a.Latitude, a.Longitude = nil, nil
		return
	}
	lat, lon := c.Latitude, c.Longitude
	a.Latitude, a.Longitude = &lat, &lon
}

// String formats the address the way the geocoder expects it.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.Postcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
