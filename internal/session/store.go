// Package session holds per-tab storefront state: auth tokens, the shopper's
// profile and the cart. Each browser tab gets its own session id, so there is
// exactly one writer per session and no cross-tab synchronization.
package session

import (
	"context"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// Field names a single value inside a session. The admin dashboard uses its
// own token/user fields so a shopper login never unlocks admin views.
const (
	FieldToken      = "token"
	FieldRefresh    = "refresh"
	FieldUser       = "user"
	FieldEmail      = "email"
	FieldCart       = "cart"
	FieldAdminToken = "admin_token"
	FieldAdminUser  = "admin_user"
)

// Store is the session repository. Implementations persist all fields of a
// write together; a zero value for a field removes the stored key instead of
// writing an empty one. Readers see absent or unparseable state as zero
// values, never as an error: a corrupt stored blob reads the same as no blob.
type Store interface {
	// SetAuth persists the shopper's tokens and profile. The email field is
	// kept under its own key so order-history lookups do not need to decode
	// the profile blob.
	SetAuth(ctx context.Context, sid string, auth domain.Session) error
	Auth(ctx context.Context, sid string) (domain.Session, error)
	Email(ctx context.Context, sid string) (string, error)

	SetAdminAuth(ctx context.Context, sid string, auth domain.Session) error
	AdminAuth(ctx context.Context, sid string) (domain.Session, error)

	SetCart(ctx context.Context, sid string, cart domain.Cart) error
	Cart(ctx context.Context, sid string) (domain.Cart, error)
	ClearCart(ctx context.Context, sid string) error

	// Clear removes every field of the session.
	Clear(ctx context.Context, sid string) error
}

var allFields = []string{
	FieldToken, FieldRefresh, FieldUser, FieldEmail, FieldCart,
	FieldAdminToken, FieldAdminUser,
}
