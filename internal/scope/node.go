package scope

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rcache/internal/adapters/bus"    //nolint:depguard // Wired in scope layer
	"go.trai.ch/rcache/internal/adapters/logger" //nolint:depguard // Wired in scope layer
	"go.trai.ch/rcache/internal/core/ports"
)

// NodeID is the unique identifier for the scope registry Graft node.
const NodeID graft.ID = "scope.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{bus.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			newBus, err := graft.Dep[ports.ChangeBusFactory](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(newBus, log), nil
		},
	})
}
