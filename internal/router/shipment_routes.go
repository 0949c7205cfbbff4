package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/handler"
	"github.com/eztransport/logistics-api/internal/middleware"
	"github.com/eztransport/logistics-api/internal/policy"
)

// RegisterShipments registers the shipment, item and tracking-event
// routes. Reads are open to every role (the handlers scope drivers and
// customers to their own shipments); mutations stay with admins and
// drivers, and destructive operations with admins alone.
func RegisterShipments(e *echo.Echo, s *handler.ShipmentHandler, it *handler.ItemHandler,
	t *handler.TrackingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	all := []policy.Role{policy.RoleAdmin, policy.RoleDriver, policy.RoleCustomer}
	staff := []policy.Role{policy.RoleAdmin, policy.RoleDriver}
	admin := []policy.Role{policy.RoleAdmin}

	g.GET("/shipments", s.List, middleware.RequireRole(all...))
	g.GET("/drivers/:id/shipments", s.ListForDriver, middleware.RequireRole(staff...))
	g.GET("/customers/:id/shipments", s.ListForCustomer,
		middleware.RequireRole(policy.RoleAdmin, policy.RoleCustomer))
	g.GET("/shipments/:id", s.Get, middleware.RequireRole(all...))
	g.GET("/shipments/:id/timeline", t.Timeline, middleware.RequireRole(all...))
	g.POST("/shipments", s.Create, middleware.RequireRole(admin...))
	g.PUT("/shipments/:id", s.Update, middleware.RequireRole(admin...))
	g.DELETE("/shipments/:id", s.Delete, middleware.RequireRole(admin...))

	g.POST("/items", it.Create, middleware.RequireRole(staff...))
	g.GET("/items", it.List, middleware.RequireRole(staff...))
	g.GET("/items/:id", it.Get, middleware.RequireRole(staff...))
	g.PUT("/items/:id", it.Update, middleware.RequireRole(staff...))
	g.DELETE("/items/:id", it.Delete, middleware.RequireRole(admin...))

	g.POST("/events", t.RecordEvent, middleware.RequireRole(staff...))
	g.GET("/events", t.ListEvents, middleware.RequireRole(staff...))
	g.DELETE("/events/:id", t.DeleteEvent, middleware.RequireRole(admin...))
}
