package domain

import "strings"

// Role is the single coarse access label assigned to a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// Named permissions. A permission can be granted to a user directly, on top
// of whatever the role bundle already carries.
const (
	PermCreateUsers         = "create-users"
	PermEditUsers           = "edit-users"
	PermDeleteUsers         = "delete-users"
	PermAddCurrencyRates    = "add-currency-rates"
	PermUpdateCurrencyRates = "update-currency-rates"
	PermDeleteCurrencyRates = "delete-currency-rates"
	PermGetCurrencyRates    = "get-currency-rates"
)

// rolePermissions maps each role to its permission bundle.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermCreateUsers,
		PermEditUsers,
		PermDeleteUsers,
		PermAddCurrencyRates,
		PermUpdateCurrencyRates,
		PermDeleteCurrencyRates,
		PermGetCurrencyRates,
	},
	RoleEditor: {
		PermAddCurrencyRates,
		PermGetCurrencyRates,
	},
	RoleUser: {
		PermGetCurrencyRates,
	},
}

// ParseRole canonicalizes a role name. Input is case-insensitive.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEditor:
		return RoleEditor, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         Role     `json:"role"`
	Permissions  []string `json:"permissions,omitempty"` // extra grants beyond the role bundle
	AuditFields
}

// HasPermission reports whether the user's effective permission set (role
// bundle plus direct grants) contains the named permission.
func (u *User) HasPermission(permission string) bool {
	for _, p := range rolePermissions[u.Role] {
		if p == permission {
			return true
		}
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
