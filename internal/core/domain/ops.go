package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capability - право на действие в ops-панели.
type Capability string

const (
	CapabilityReadLeads      Capability = "leads:read"
	CapabilityReviewListings Capability = "listings:review"
	CapabilityVerifyListings Capability = "listings:verify"
)

// OpsCapabilities - полный набор прав. Иерархии ролей нет.
func OpsCapabilities() []Capability {
	return []Capability{CapabilityReadLeads, CapabilityReviewListings, CapabilityVerifyListings}
}

const (
	AuthMethodSharedSecret = "shared_secret"
	AuthMethodSession      = "session"
	AuthMethodDevBypass    = "dev_bypass"
)

// OpsCredentials - то, что вызывающий предъявил в запросе.
type OpsCredentials struct {
	Key          string
	SessionToken string
}

// OpsPrincipal - авторизованный оператор.
type OpsPrincipal struct {
	Identity     string
	Method       string
	capabilities map[Capability]struct{}
}

func NewOpsPrincipal(identity, method string, caps ...Capability) *OpsPrincipal {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return &OpsPrincipal{Identity: identity, Method: method, capabilities: set}
}

func (p *OpsPrincipal) Can(c Capability) bool {
	if p == nil {
		return false
	}
	_, ok := p.capabilities[c]
	return ok
}

// OpsUser - учетная запись оператора для режима сессий.
type OpsUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// OpsSession - выданная сессия оператора.
type OpsSession struct {
	ID        uuid.UUID
	Email     string
	ExpiresAt time.Time
}
