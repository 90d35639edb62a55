// Package access holds the role and ownership checks applied before any
// mutation runs.
package access

import (
	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
)

// RequireRole fails with Forbidden unless principal holds role.
func RequireRole(principal *domain.Principal, role domain.Role) error {
	if principal == nil {
		return apperror.Forbidden("access denied")
	}
	if principal.Role != role {
		return apperror.Forbidden("access denied: " + string(role) + " role required")
	}
	return nil
}

// RequireOwnership fails with Forbidden unless principal is ownerID.
func RequireOwnership(principal *domain.Principal, ownerID string) error {
	if principal == nil || ownerID == "" || principal.ID != ownerID {
		return apperror.Forbidden("you are not the owner of this resource")
	}
	return nil
}
