package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type OpsLoginUseCase struct {
	users     port.OpsUserRepositoryPort
	tokens    port.TokenServicePort
	sessions  port.SessionStorePort
	allowList domain.EmailAllowList
	ttl       time.Duration
}

func NewOpsLoginUseCase(
	users port.OpsUserRepositoryPort,
	tokens port.TokenServicePort,
	sessions port.SessionStorePort,
	allowList domain.EmailAllowList,
	ttl time.Duration,
) *OpsLoginUseCase {
	return &OpsLoginUseCase{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		allowList: allowList,
		ttl:       ttl,
	}
}

// Execute проверяет пароль оператора и открывает сессию.
// Email вне списка администраторов и неверный пароль дают одну и ту же ошибку.
func (uc *OpsLoginUseCase) Execute(ctx context.Context, email, password string) (string, *domain.OpsSession, error) {
	email = domain.NormalizeEmail(email)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "OpsLogin",
		"email":    email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !uc.allowList.Contains(email) {
		ucLogger.Warn("Login attempt for email outside the admin allow-list", nil)
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Failed to find ops user", err, nil)
		return "", nil, domain.NewStoreError("find ops user", err)
	}
	if user == nil {
		ucLogger.Warn("Ops user not found", nil)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		ucLogger.Warn("Password mismatch", nil)
		return "", nil, domain.ErrInvalidCredentials
	}

	session := &domain.OpsSession{
		ID:        uuid.New(),
		Email:     user.Email,
		ExpiresAt: time.Now().Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session, uc.ttl); err != nil {
		ucLogger.Error("Failed to save ops session", err, nil)
		return "", nil, domain.NewStoreError("save ops session", err)
	}

	token, err := uc.tokens.GenerateToken(ctx, session)
	if err != nil {
		ucLogger.Error("Failed to generate session token", err, nil)
		_ = uc.sessions.Delete(context.WithoutCancel(ctx), session.ID)
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"session_id": session.ID})
	return token, session, nil
}

type OpsLogoutUseCase struct {
	tokens   port.TokenServicePort
	sessions port.SessionStorePort
}

func NewOpsLogoutUseCase(tokens port.TokenServicePort, sessions port.SessionStorePort) *OpsLogoutUseCase {
	return &OpsLogoutUseCase{tokens: tokens, sessions: sessions}
}

// Execute отзывает сессию. Недействительный токен не считается ошибкой.
func (uc *OpsLogoutUseCase) Execute(ctx context.Context, token string) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "OpsLogout"})

	session, err := uc.tokens.ValidateToken(ctx, token)
	if err != nil {
		ucLogger.Info("Logout with invalid or expired token, nothing to revoke", nil)
		return nil
	}
	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		ucLogger.Error("Failed to delete ops session", err, port.Fields{"session_id": session.ID})
		return domain.NewStoreError("delete ops session", err)
	}

	ucLogger.Info("Ops session revoked", port.Fields{"session_id": session.ID})
	return nil
}
