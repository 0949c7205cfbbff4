package model

// Vehicle status values as stored in vehicles.status.
const (
	VehicleAvailable   = "available"
	VehicleInUse       = "in_use"
	VehicleMaintenance = "maintenance"
)

// Vehicle mirrors the `vehicles` table. A vehicle may be assigned to
// at most one active shipment at a time; assignment flips its status
// between available and in_use.
//
// Fields:
//  ID                 – primary key identifier.
//  LicensePlate       – unique plate number.
//  Make               – manufacturer.
//  Model              – model name.
//  Year               – production year.
//  VehicleType        – truck, van, etc.
//  Status             – available, in_use or maintenance.
//  CapacityKg         – load capacity in kilograms.
//  CurrentLocationID  – last known location, nullable.
//  LastInspectionDate – most recent inspection date, nullable.
type Vehicle struct {
	ID                 uint64  // vehicles.vehicle_id
	LicensePlate       string  // vehicles.license_plate
	Make               string  // vehicles.make
	Model              string  // vehicles.model
	Year               uint16  // vehicles.year
	VehicleType        string  // vehicles.vehicle_type
	Status             string  // vehicles.status
	CapacityKg         float64 // vehicles.capacity_kg
	CurrentLocationID  *uint64 // vehicles.current_location_id (nullable)
	LastInspectionDate *string // vehicles.last_inspection_date (nullable)
}
