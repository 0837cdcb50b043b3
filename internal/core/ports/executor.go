// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/remake/internal/core/domain"
)

// Executor defines the interface for running a single recipe command.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute spawns cmd.Program with cmd.Args and waits for it to exit.
	//
	// It returns an error if the process cannot be spawned or exits non-zero.
	Execute(ctx context.Context, cmd domain.Command) error
}

type workDirKey struct{}

// ContextWithWorkDir returns a copy of ctx whose commands run in dir.
func ContextWithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the directory commands run in, if ctx carries one.
func WorkDirFromContext(ctx context.Context) (string, bool) {
	dir, ok := ctx.Value(workDirKey{}).(string)
	return dir, ok
}
