package authz

import "strings"

// Principal - тот, от чьего имени выполняется операция.
// Передаётся в сервисы явно, а не через глобальное состояние.
type Principal struct {
	UserID      uint64
	Email       string
	FullName    string
	RoleID      *uint64
	RoleName    string
	Permissions map[string]bool
}

func (p *Principal) HasRole() bool {
	return p != nil && p.RoleID != nil
}

// IsRequester - совпадение email без учёта регистра.
func (p *Principal) IsRequester(requesterEmail string) bool {
	if p == nil || p.Email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.Email), strings.TrimSpace(requesterEmail))
}

func (p *Principal) UserIDPtr() *uint64 {
	if p == nil || p.UserID == 0 {
		return nil
	}
	id := p.UserID
	return &id
}
