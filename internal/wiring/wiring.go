// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mbuild/internal/adapters/config"
	_ "go.trai.ch/mbuild/internal/adapters/fs"
	_ "go.trai.ch/mbuild/internal/adapters/linear"
	_ "go.trai.ch/mbuild/internal/adapters/logger"
	_ "go.trai.ch/mbuild/internal/adapters/report"
	_ "go.trai.ch/mbuild/internal/adapters/shell"
	_ "go.trai.ch/mbuild/internal/adapters/telemetry"
	_ "go.trai.ch/mbuild/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/mbuild/internal/app"
	_ "go.trai.ch/mbuild/internal/engine/finalize"
	_ "go.trai.ch/mbuild/internal/engine/hooks"
	_ "go.trai.ch/mbuild/internal/engine/scanner"
	_ "go.trai.ch/mbuild/internal/engine/scheduler"
	_ "go.trai.ch/mbuild/internal/engine/toolchain"
)
