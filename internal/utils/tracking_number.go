package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTrackingNumber generates a public tracking handle of the form
// EZT-XXXXXXXXXXXX. Twelve hex characters of a random UUID keep the
// handle short enough to read over the phone while leaving collisions
// to the database's unique index to catch.
func NewTrackingNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "EZT-" + id[:12]
}
