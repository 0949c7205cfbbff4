package model

// Route mirrors the `routes` table. A route is a reusable origin to
// destination plan that shipments may reference; routes with dependent
// shipments cannot be deleted.
//
// Fields:
//  ID                  – primary key identifier.
//  RouteName           – display name.
//  OriginID            – starting location.
//  DestinationID       – final location.
//  DistanceKm          – planned distance in kilometres.
//  EstimatedDurationMin – planned duration in minutes.
//  Status              – active or inactive.
//  HazardLevel         – low, medium or high.
type Route struct {
	ID                   uint64  // routes.route_id
	RouteName            string  // routes.route_name
	OriginID             uint64  // routes.origin_id
	DestinationID        uint64  // routes.destination_id
	DistanceKm           float64 // routes.distance_km
	EstimatedDurationMin uint32  // routes.estimated_duration_min
	Status               string  // routes.status
	HazardLevel          string  // routes.hazard_level
}
