package domain

import "strings"

// EmailAllowList - статический список email администраторов, без учета регистра.
type EmailAllowList struct {
	emails map[string]struct{}
}

func NewEmailAllowList(emails []string) EmailAllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if normalized := NormalizeEmail(e); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return EmailAllowList{emails: set}
}

func (l EmailAllowList) Contains(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false
	}
	_, ok := l.emails[normalized]
	return ok
}

func (l EmailAllowList) Len() int {
	return len(l.emails)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
