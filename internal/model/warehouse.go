package model

// Warehouse mirrors the `warehouses` table. A warehouse occupies
// exactly one location; creating a warehouse promotes its location's
// type to "warehouse".
//
// Fields:
//  ID               – primary key identifier.
//  LocationID       – site of the warehouse.
//  WarehouseName    – display name.
//  Capacity         – total storage capacity.
//  CurrentOccupancy – used capacity.
//  ManagerID        – managing user, nullable.
//  OperatingHours   – free-form schedule string, nullable.
type Warehouse struct {
	ID               uint64  // warehouses.warehouse_id
	LocationID       uint64  // warehouses.location_id
	WarehouseName    string  // warehouses.warehouse_name
	Capacity         float64 // warehouses.capacity
	CurrentOccupancy float64 // warehouses.current_occupancy
	ManagerID        *uint64 // warehouses.manager_id (nullable)
	OperatingHours   *string // warehouses.operating_hours (nullable)
}
