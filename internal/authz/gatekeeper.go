package authz

import (
	"fmt"

	apperrors "maintenance-system/pkg/errors"
)

// Authorize: без принципала или без роли прав нет.
func Authorize(p *Principal, capability string) bool {
	if !p.HasRole() || p.Permissions == nil {
		return false
	}
	return p.Permissions[capability]
}

func Require(p *Principal, capability string) error {
	if Authorize(p, capability) {
		return nil
	}
	return fmt.Errorf("%w: требуется право %s", apperrors.ErrPermissionDenied, capability)
}

// CanEditRequest - менеджер заявок или сам заявитель.
func CanEditRequest(p *Principal, requesterEmail string) bool {
	return Authorize(p, ManageRequests) || p.IsRequester(requesterEmail)
}
