package ports

import "go.trai.ch/rcache/internal/core/domain"

// ProgramLoader parses program files into syntax trees.
//
//go:generate mockgen -source=program_loader.go -destination=mocks/mock_program_loader.go -package=mocks
type ProgramLoader interface {
	// Load parses the file at path and returns its file node.
	Load(path string) (*domain.Node, error)
}
