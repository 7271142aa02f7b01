package audit

import "context"

type actorKey struct{}

// Actor identifies who triggered an audited action.
type Actor struct {
	ID        string
	RequestID string
}

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
