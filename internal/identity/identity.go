// Package identity talks to the hosted identity provider: the admin API used to
// provision, invite and delete club administrator accounts.
package identity

//go:generate mockgen -source=identity.go -destination=mocks/mocks.go -package=mocks AccountAdmin

import (
	"context"

	id "a2admin/pkg/domain"
)

// Account is an identity provider user.
type Account struct {
	ID    id.PrincipalID
	Email string
	Role  string
}

// AccountAdmin is the privileged account management surface.
// DeleteAccount returns sentinel.ErrNotFound for unknown accounts.
type AccountAdmin interface {
	ListAccountsByEmail(ctx context.Context, email string) ([]Account, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (Account, error)
	SetAccountRole(ctx context.Context, accountID id.PrincipalID, role string) error
	DeleteAccount(ctx context.Context, accountID id.PrincipalID) error
	InviteByEmail(ctx context.Context, email, redirectTo string) error
	GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error)
}

// CreateAccountRequest describes an unconfirmed account; the provider sends the
// activation email pointing at RedirectTo.
type CreateAccountRequest struct {
	Email      string
	Role       string
	RedirectTo string
}
