package reqctx

import "context"

type ctxKey string

const (
	keyRID   ctxKey = "realestate_rid"
	keyEmail ctxKey = "realestate_email"
)

// WithRID stores the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithEmail stores the authenticated moderator email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, keyEmail, email)
}

func Email(ctx context.Context) string {
	v, _ := ctx.Value(keyEmail).(string)
	return v
}
