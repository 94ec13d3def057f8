package port

import (
	"context"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
)

//go:generate mockgen -source=identity.go -destination=mock/identity.go -package=mock
type IdentityProvider interface {
	GetRole(ctx context.Context, adminID uint64) (domain.Role, error)
	GetPayeeIDForAdmin(ctx context.Context, adminID uint64) (uint64, error)
}

type CredentialStore interface {
	ListActiveQRCredentials(ctx context.Context, payeeID uint64, method domain.PaymentMethod) ([]*domain.Credential, error)
}
