package handler

import (
	"github.com/eztransport/logistics-api/internal/config"
	"github.com/eztransport/logistics-api/internal/repository"
)

// AdminHandler bundles the repositories behind the management screens:
// customers, drivers, vehicles, locations, warehouses and routes.
// Shipments and tracking have their own handlers.
type AdminHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Customers  *repository.CustomerRepo
	Drivers    *repository.DriverRepo
	Vehicles   *repository.VehicleRepo
	Locations  *repository.LocationRepo
	Warehouses *repository.WarehouseRepo
	Routes     *repository.RouteRepo
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, customers *repository.CustomerRepo,
	drivers *repository.DriverRepo, vehicles *repository.VehicleRepo, locations *repository.LocationRepo,
	warehouses *repository.WarehouseRepo, routes *repository.RouteRepo) *AdminHandler {
	if users == nil || customers == nil || drivers == nil || vehicles == nil ||
		locations == nil || warehouses == nil || routes == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Cfg:        cfg,
		Users:      users,
		Customers:  customers,
		Drivers:    drivers,
		Vehicles:   vehicles,
		Locations:  locations,
		Warehouses: warehouses,
		Routes:     routes,
	}
}
