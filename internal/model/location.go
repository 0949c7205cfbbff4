package model

// Location mirrors the `locations` table. Locations serve as shipment
// origins and destinations, route endpoints, warehouse sites and
// tracking-event positions, so deleting one requires reference checks
// across all of those tables.
//
// Fields:
//  ID           – primary key identifier.
//  Address      – street address.
//  City         – city name.
//  State        – state or region.
//  Country      – country name.
//  PostalCode   – postal code.
//  Latitude     – WGS84 latitude, nullable.
//  Longitude    – WGS84 longitude, nullable.
//  LocationType – customer, warehouse, port, etc.
type Location struct {
	ID           uint64   // locations.location_id
	Address      string   // locations.address
	City         string   // locations.city
	State        string   // locations.state
	Country      string   // locations.country
	PostalCode   string   // locations.postal_code
	Latitude     *float64 // locations.latitude (nullable)
	Longitude    *float64 // locations.longitude (nullable)
	LocationType string   // locations.location_type
}

// Label returns the "City, State" display form used across list
// responses and the tracking timeline.
func (l Location) Label() string {
	return l.City + ", " + l.State
}
