package contextkeys

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
)

type principalKeyType struct{}

var principalKey = principalKeyType{}

// ContextWithPrincipal кладет авторизованного оператора в контекст
func ContextWithPrincipal(ctx context.Context, principal *domain.OpsPrincipal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext возвращает nil для публичных запросов
func PrincipalFromContext(ctx context.Context) *domain.OpsPrincipal {
	if p, ok := ctx.Value(principalKey).(*domain.OpsPrincipal); ok {
		return p
	}
	return nil
}
