package entity

import "context"

type (
	CtxKeyUser struct{}
	CtxKeyIP   struct{}
)

func CtxWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, CtxKeyUser{}, user)
}

// UserFromCtx returns the authenticated user or ErrUnauthenticated when the
// request passed no session middleware.
func UserFromCtx(ctx context.Context) (User, error) {
	user, ok := ctx.Value(CtxKeyUser{}).(User)
	if !ok {
		return user, ErrUnauthenticated
	}

	return user, nil
}

func IPFromCtx(ctx context.Context) string {
	ip, ok := ctx.Value(CtxKeyIP{}).(string)
	if !ok {
		return ""
	}

	return ip
}
