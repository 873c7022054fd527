package models

import (
	"context"

	"github.com/google/uuid"
)

// Actor identifies the authenticated staff member performing a request.
// It travels in the context so services can attribute audit rows and
// approvals without threading ids through every call.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type actorContextKey struct{}

// WithActor returns a context carrying the given actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor extracts the actor from the context.
func GetActor(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
