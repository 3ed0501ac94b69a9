package app

import (
	"go.trai.ch/rcache/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry *telemetry.Telemetry
}
