package security

import "lescombis/internal/models"

// Authorization predicates. These are the single source of truth for role
// checks: the workflow engines call them on every write path and the API
// layer only reflects their outcomes.

// CanManageFinances reports whether the actor may record dues payments and
// decide or pay claims. Treasurers and admins qualify.
func CanManageFinances(roles []string) bool {
	return hasAnyRole(roles, models.RoleTresorier, models.RoleAdmin)
}

// CanManageMembers reports whether the actor may create members or change
// their status. Admins only.
func CanManageMembers(roles []string) bool {
	return hasAnyRole(roles, models.RoleAdmin)
}

func hasAnyRole(roles []string, wanted ...string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}
