// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/go-chi/chi/v5"
)

// Module is the common surface for modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes on the provided router
	MountRoutes(r chi.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any

	// Name returns the module name
	Name() string
}
