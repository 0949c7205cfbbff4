// Package repository defines error values reused across multiple
// repositories. These sentinels let handlers distinguish failure
// scenarios without inspecting SQL errors: ErrConflict covers deletes
// blocked by dependent rows (a location still referenced by shipments,
// a driver still assigned), ErrForbidden covers access to rows scoped
// to another principal (a customer reading someone else's shipment).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource scoped to a different principal. Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed
// because of dependent records. Handlers translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
