package dashboard

import "context"

// ActivityContext names who edited a record, tracked a keyword or ran an
// audit. Commands attach it so the activity feed credits the real actor
// rather than the viewer the page was rendered for.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type activityContextKey struct{}

// ContextWithActivity stores meta on ctx for later activity events.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

func activityContextFrom(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	if meta, ok := ctx.Value(activityContextKey{}).(ActivityContext); ok {
		return meta
	}
	return ActivityContext{}
}

// resolveActivity fills the user from the viewer and the actor from the user
// when the command did not name them.
func resolveActivity(ctx context.Context, viewer ViewerContext) ActivityContext {
	meta := activityContextFrom(ctx)
	if meta.UserID == "" {
		meta.UserID = viewer.UserID
	}
	if meta.ActorID == "" {
		meta.ActorID = meta.UserID
	}
	return meta
}
