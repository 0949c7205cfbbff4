package model

import "time"

// Shipment status values as stored in shipments.status. Status is
// advanced by tracking events (see EventStatus); the progression is
// pending -> picked_up -> in_transit -> delivered, with returned as a
// terminal side branch.
const (
	ShipmentPending   = "pending"
	ShipmentPickedUp  = "picked_up"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentReturned  = "returned"
)

// Shipment mirrors the `shipments` table. The tracking number is the
// public handle used by customers for timeline lookups and is unique
// across all shipments.
//
// Fields:
//  ID                  – primary key identifier.
//  TrackingNumber      – unique public tracking handle.
//  CustomerID          – owning customer.
//  OriginID            – pickup location.
//  DestinationID       – delivery location.
//  RouteID             – planned route, nullable.
//  VehicleID           – assigned vehicle, nullable.
//  DriverID            – assigned driver, nullable.
//  Status              – current lifecycle status.
//  TotalWeight         – aggregate item weight (kept in sync with items).
//  TotalVolume         – aggregate item volume.
//  ShipmentValue       – aggregate declared value.
//  InsuranceRequired   – whether insurance was requested.
//  SpecialInstructions – free-form handling notes, nullable.
//  PickupDate          – scheduled pickup, nullable.
//  EstimatedDelivery   – promised delivery time, nullable.
//  ActualDelivery      – recorded delivery time, nullable.
//  CreatedAt           – timestamp of creation.
type Shipment struct {
	ID                  uint64     // shipments.shipment_id
	TrackingNumber      string     // shipments.tracking_number
	CustomerID          uint64     // shipments.customer_id
	OriginID            uint64     // shipments.origin_id
	DestinationID       uint64     // shipments.destination_id
	RouteID             *uint64    // shipments.route_id (nullable)
	VehicleID           *uint64    // shipments.vehicle_id (nullable)
	DriverID            *uint64    // shipments.driver_id (nullable)
	Status              string     // shipments.status
	TotalWeight         float64    // shipments.total_weight
	TotalVolume         float64    // shipments.total_volume
	ShipmentValue       float64    // shipments.shipment_value
	InsuranceRequired   bool       // shipments.insurance_required
	SpecialInstructions *string    // shipments.special_instructions (nullable)
	PickupDate          *time.Time // shipments.pickup_date (nullable)
	EstimatedDelivery   *time.Time // shipments.estimated_delivery (nullable)
	ActualDelivery      *time.Time // shipments.actual_delivery (nullable)
	CreatedAt           time.Time  // shipments.created_at
}

// ShipmentItem mirrors the `shipment_items` table. Item changes drive
// the parent shipment's total weight, volume and value.
//
// Fields:
//  ID          – primary key identifier.
//  ShipmentID  – parent shipment.
//  Description – item description.
//  Quantity    – number of units.
//  Weight      – weight per unit.
//  Volume      – volume per unit.
//  ItemValue   – declared value per unit.
//  IsHazardous – hazardous-goods flag.
//  IsFragile   – fragile-goods flag.
type ShipmentItem struct {
	ID          uint64  // shipment_items.item_id
	ShipmentID  uint64  // shipment_items.shipment_id
	Description string  // shipment_items.description
	Quantity    uint32  // shipment_items.quantity
	Weight      float64 // shipment_items.weight
	Volume      float64 // shipment_items.volume
	ItemValue   float64 // shipment_items.item_value
	IsHazardous bool    // shipment_items.is_hazardous
	IsFragile   bool    // shipment_items.is_fragile
}
