package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[*Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Telemetry, error) {
			return New(), nil
		},
	})
}
