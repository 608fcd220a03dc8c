package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "listing-service"

// SessionTokenService подписывает cookie сессии оператора (HS256).
// Сам токен не дает доступа: сессия должна быть жива в реестре.
type SessionTokenService struct {
	signingKey []byte
}

func NewSessionTokenService(signingKey string) (*SessionTokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	return &SessionTokenService{signingKey: []byte(signingKey)}, nil
}

type sessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

func (s *SessionTokenService) GenerateToken(ctx context.Context, session *domain.OpsSession) (string, error) {
	serviceLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "SessionTokenService",
		"method":     "GenerateToken",
		"session_id": session.ID,
	})

	now := time.Now()
	claims := &sessionClaims{
		SessionID: session.ID,
		Email:     session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Email,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		serviceLogger.Error("Failed to sign token", err, nil)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *SessionTokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.OpsSession, error) {
	serviceLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SessionTokenService",
		"method":    "ValidateToken",
	})

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			serviceLogger.Debug("Session token has expired", nil)
		} else {
			serviceLogger.Warn("Invalid session token", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == uuid.Nil {
		return nil, domain.ErrTokenInvalid
	}

	session := &domain.OpsSession{ID: claims.SessionID, Email: claims.Email}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
