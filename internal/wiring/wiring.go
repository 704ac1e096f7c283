// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lantern/internal/adapters/bridge"
	_ "go.trai.ch/lantern/internal/adapters/cachestore"
	_ "go.trai.ch/lantern/internal/adapters/config"
	_ "go.trai.ch/lantern/internal/adapters/connectivity"
	_ "go.trai.ch/lantern/internal/adapters/device"
	_ "go.trai.ch/lantern/internal/adapters/kv"
	_ "go.trai.ch/lantern/internal/adapters/logger"
	_ "go.trai.ch/lantern/internal/adapters/network"
	_ "go.trai.ch/lantern/internal/adapters/remote"
	_ "go.trai.ch/lantern/internal/adapters/settings"
	_ "go.trai.ch/lantern/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/lantern/internal/app"
	_ "go.trai.ch/lantern/internal/engine/connstate"
	_ "go.trai.ch/lantern/internal/engine/monitor"
	_ "go.trai.ch/lantern/internal/engine/syncqueue"
	_ "go.trai.ch/lantern/internal/engine/worker"
)
