package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/handler"
	"github.com/eztransport/logistics-api/internal/middleware"
	"github.com/eztransport/logistics-api/internal/policy"
)

// RegisterAdmin registers the management screens. Every route in here
// is admin only: customers, drivers, vehicles, locations, warehouses
// and routes.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(policy.RoleAdmin))

	g.POST("/customers", h.CreateCustomer)
	g.GET("/customers", h.ListCustomers)
	g.GET("/customers/:id", h.GetCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)

	g.POST("/drivers", h.CreateDriver)
	g.GET("/drivers", h.ListDrivers)
	g.GET("/drivers/:id", h.GetDriver)
	g.PUT("/drivers/:id", h.UpdateDriver)
	g.DELETE("/drivers/:id", h.DeleteDriver)

	g.POST("/vehicles", h.CreateVehicle)
	g.GET("/vehicles", h.ListVehicles)
	g.GET("/vehicles/:id", h.GetVehicle)
	g.PUT("/vehicles/:id", h.UpdateVehicle)
	g.DELETE("/vehicles/:id", h.DeleteVehicle)

	g.POST("/locations", h.CreateLocation)
	g.GET("/locations", h.ListLocations)
	g.GET("/locations/:id", h.GetLocation)
	g.PUT("/locations/:id", h.UpdateLocation)
	g.DELETE("/locations/:id", h.DeleteLocation)

	g.POST("/warehouses", h.CreateWarehouse)
	g.GET("/warehouses", h.ListWarehouses)
	g.GET("/warehouses/:id", h.GetWarehouse)
	g.PUT("/warehouses/:id", h.UpdateWarehouse)
	g.DELETE("/warehouses/:id", h.DeleteWarehouse)

	g.POST("/routes", h.CreateRoute)
	g.GET("/routes", h.ListRoutes)
	g.GET("/routes/:id", h.GetRoute)
	g.PUT("/routes/:id", h.UpdateRoute)
	g.DELETE("/routes/:id", h.DeleteRoute)
}
