package ports

import "go.trai.ch/remake/internal/core/domain"

// Hasher defines the interface for computing recipe digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashRecipe computes a digest over a target name and its commands.
	HashRecipe(target string, commands []domain.Command) string
}
