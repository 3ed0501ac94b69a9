package bus

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rcache/internal/core/ports"
)

// NodeID is the unique identifier for the change bus factory Graft node.
const NodeID graft.ID = "adapter.bus"

func init() {
	graft.Register(graft.Node[ports.ChangeBusFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ChangeBusFactory, error) {
			return func() ports.ChangeBus { return New() }, nil
		},
	})
}
