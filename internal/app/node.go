package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rcache/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/rcache/internal/scope"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			scope.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProgramLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	scopes, err := graft.Dep[*scope.Registry](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[*telemetry.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, scopes, tel, watchers), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[*telemetry.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       a,
		Logger:    log,
		Telemetry: tel,
	}, nil
}
