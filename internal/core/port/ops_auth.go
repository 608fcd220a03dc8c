package port

import (
	"context"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// AccessPolicyPort - единая политика доступа к ops-панели.
type AccessPolicyPort interface {
	// Authorize возвращает domain.ErrUnauthorized при любой неудаче, без подробностей.
	Authorize(ctx context.Context, creds domain.OpsCredentials) (*domain.OpsPrincipal, error)
	Mode() string
}

// TokenServicePort - подпись и проверка токенов сессии оператора.
type TokenServicePort interface {
	GenerateToken(ctx context.Context, session *domain.OpsSession) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.OpsSession, error)
}

// SessionStorePort - реестр живых сессий операторов.
type SessionStorePort interface {
	Save(ctx context.Context, session *domain.OpsSession, ttl time.Duration) error
	Exists(ctx context.Context, sessionID uuid.UUID) (bool, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
