// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rcache/internal/adapters/bus"
	_ "go.trai.ch/rcache/internal/adapters/config"
	_ "go.trai.ch/rcache/internal/adapters/logger"
	_ "go.trai.ch/rcache/internal/adapters/telemetry"
	_ "go.trai.ch/rcache/internal/adapters/watcher"
	// Register app and scope nodes.
	_ "go.trai.ch/rcache/internal/app"
	_ "go.trai.ch/rcache/internal/scope"
)
