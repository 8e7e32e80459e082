package auth

import (
	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// RequireRole checks the resolved identity against the allowed role set for
// an operation. Pure check, no I/O. An empty set admits any authenticated
// caller. The distinction between the two failures matters: a missing
// identity is 401, a wrong role is 403.
func RequireRole(identity models.Identity, roles ...string) error {
	if identity.Username == "" {
		return apperr.Unauthenticated("authentication required")
	}

	if len(roles) == 0 {
		return nil
	}

	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}

	return apperr.Forbidden("insufficient permissions")
}
