package application

import (
	"context"

	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// CommandHandler executes a command and returns its result.
//
// Unlike queries, a command result is not a projection: it is whatever the
// handler produced while mutating state (e.g. the booking that was created),
// handed back to the dispatcher synchronously.
type CommandHandler[C domain.Command[D], D any, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CommandBus routes commands to their registered handler.
type CommandBus[C domain.Command[D], D any, R any] interface {
	RegisterHandler(commandName string, handler CommandHandler[C, D, R])
	Dispatch(ctx context.Context, command C) (R, error)
}
