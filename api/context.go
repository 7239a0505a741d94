package api

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/verlynk/verlynk-backend/errs"
)

type keyType string

const identityKey keyType = "identity"

// Identity is the verified caller attached to every authenticated request.
// Downstream handlers trust it without re-verification.
type Identity struct {
	UserID primitive.ObjectID
	Email  string
}

// ctxWithIdentity adds the verified caller to the context
func ctxWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// identityFromCtx retrieves the verified caller from the context
func identityFromCtx(ctx context.Context) (Identity, error) {
	value := ctx.Value(identityKey)
	if value == nil {
		return Identity{}, errs.NewMissingTokenError()
	}
	identity, ok := value.(Identity)
	if !ok {
		return Identity{}, errs.NewMissingTokenError()
	}
	return identity, nil
}
