package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the authenticated caller, or nil when the
// request did not pass through Middleware.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}

// UserID returns the caller's id, or uuid.Nil for an anonymous request.
func UserID(ctx context.Context) uuid.UUID {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return uuid.Nil
}

// Middleware rejects requests without a valid bearer token before the
// operation handler (and its body parsing) runs.
func Middleware(api huma.API, authenticator Authenticator) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := BearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}

		identity, err := authenticator.Authenticate(ctx.Context(), token)
		if err != nil || identity == nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}

		next(huma.WithValue(ctx, identityKey{}, identity))
	}
}
