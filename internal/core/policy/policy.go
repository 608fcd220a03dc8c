package policy

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

// Require авторизует вызывающего и проверяет конкретное право.
func Require(ctx context.Context, policy port.AccessPolicyPort, creds domain.OpsCredentials, capability domain.Capability) (*domain.OpsPrincipal, error) {
	principal, err := policy.Authorize(ctx, creds)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if capability != "" && !principal.Can(capability) {
		return nil, domain.ErrUnauthorized
	}
	return principal, nil
}

// SharedSecretPolicy сравнивает ключ из запроса с секретом сервера.
// Вне production любой вызывающий авторизован.
type SharedSecretPolicy struct {
	secret     string
	production bool
}

func NewSharedSecretPolicy(secret string, production bool) *SharedSecretPolicy {
	return &SharedSecretPolicy{secret: strings.TrimSpace(secret), production: production}
}

func (p *SharedSecretPolicy) Mode() string {
	return domain.AuthMethodSharedSecret
}

// DevBypass сообщает, отключена ли проверка ключа.
func (p *SharedSecretPolicy) DevBypass() bool {
	return !p.production
}

func (p *SharedSecretPolicy) Authorize(ctx context.Context, creds domain.OpsCredentials) (*domain.OpsPrincipal, error) {
	if !p.production {
		return domain.NewOpsPrincipal("dev-bypass", domain.AuthMethodDevBypass, domain.OpsCapabilities()...), nil
	}

	provided := strings.TrimSpace(creds.Key)
	if p.secret == "" || provided == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(p.secret)) != 1 {
		contextkeys.LoggerFromContext(ctx).Warn("Ops key mismatch", port.Fields{"component": "SharedSecretPolicy"})
		return nil, domain.ErrUnauthorized
	}
	return domain.NewOpsPrincipal("shared-secret", domain.AuthMethodSharedSecret, domain.OpsCapabilities()...), nil
}

// SessionAllowListPolicy пускает держателя живой сессии с email из списка администраторов.
type SessionAllowListPolicy struct {
	tokens    port.TokenServicePort
	sessions  port.SessionStorePort
	allowList domain.EmailAllowList
}

func NewSessionAllowListPolicy(tokens port.TokenServicePort, sessions port.SessionStorePort, allowList domain.EmailAllowList) *SessionAllowListPolicy {
	return &SessionAllowListPolicy{tokens: tokens, sessions: sessions, allowList: allowList}
}

func (p *SessionAllowListPolicy) Mode() string {
	return domain.AuthMethodSession
}

func (p *SessionAllowListPolicy) Authorize(ctx context.Context, creds domain.OpsCredentials) (*domain.OpsPrincipal, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "SessionAllowListPolicy"})

	if creds.SessionToken == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := p.tokens.ValidateToken(ctx, creds.SessionToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	alive, err := p.sessions.Exists(ctx, session.ID)
	if err != nil {
		logger.Error("Failed to look up ops session", err, port.Fields{"session_id": session.ID})
		return nil, domain.ErrUnauthorized
	}
	if !alive {
		logger.Info("Ops session was revoked or expired", port.Fields{"session_id": session.ID})
		return nil, domain.ErrUnauthorized
	}

	// email, убранный из ADMIN_EMAILS при передеплое, теряет доступ и с живой сессией
	if !p.allowList.Contains(session.Email) {
		logger.Warn("Session email is not in the admin allow-list", port.Fields{"session_id": session.ID})
		return nil, domain.ErrUnauthorized
	}

	return domain.NewOpsPrincipal(domain.NormalizeEmail(session.Email), domain.AuthMethodSession, domain.OpsCapabilities()...), nil
}
