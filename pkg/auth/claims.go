package auth

import "github.com/golang-jwt/jwt/v5"

// Claims carries the identity asserted by the command layer on behalf of an
// economy participant.
type Claims struct {
	jwt.RegisteredClaims
	EntityID string   `json:"entity_id"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the claims include the given role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Role constants.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleMember   = "member"
)
