package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rcache/internal/adapters/logger"
	"go.trai.ch/rcache/internal/core/ports"
)

// NodeID is the unique identifier for the program loader Graft node.
const NodeID graft.ID = "adapter.program_loader"

func init() {
	graft.Register(graft.Node[ports.ProgramLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProgramLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
