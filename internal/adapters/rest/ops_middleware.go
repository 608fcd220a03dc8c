package rest

import (
	"net/http"
	"strings"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/policy"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

const (
	opsKeyQueryParam  = "key"
	opsKeyHeader      = "X-Ops-Key"
	opsSessionCookie  = "ops_session"
	unauthorizedError = "unauthorized"
)

// opsCredentials собирает все, что вызывающий мог предъявить. Что из этого
// проверять, решает политика.
func opsCredentials(r *http.Request) domain.OpsCredentials {
	creds := domain.OpsCredentials{
		Key: strings.TrimSpace(r.URL.Query().Get(opsKeyQueryParam)),
	}
	if creds.Key == "" {
		creds.Key = strings.TrimSpace(r.Header.Get(opsKeyHeader))
	}
	if cookie, err := r.Cookie(opsSessionCookie); err == nil {
		creds.SessionToken = cookie.Value
	}
	return creds
}

// OpsAccess пропускает запрос, если политика авторизовала вызывающего и у него есть право.
// Пустой capability - любой авторизованный оператор.
func OpsAccess(accessPolicy port.AccessPolicyPort, capability domain.Capability) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := contextkeys.LoggerFromContext(r.Context())

			principal, err := policy.Require(r.Context(), accessPolicy, opsCredentials(r), capability)
			if err != nil {
				logger.Warn("Ops access denied", port.Fields{
					"auth_mode":  accessPolicy.Mode(),
					"capability": string(capability),
				})
				WriteJSONError(w, http.StatusUnauthorized, unauthorizedError)
				return
			}

			opsLogger := logger.WithFields(port.Fields{
				"ops_identity":    principal.Identity,
				"ops_auth_method": principal.Method,
			})
			ctx := contextkeys.ContextWithPrincipal(r.Context(), principal)
			ctx = contextkeys.ContextWithLogger(ctx, opsLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
