package domain

import "context"

type actorKey struct{}

// SystemActor is recorded in activity entries when no actor is set.
const SystemActor = "system"

// WithActor returns a context naming the user performing an operation.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the actor stored by WithActor, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return SystemActor
}
