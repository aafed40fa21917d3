package users

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleGuest, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
