package domain

import "fmt"

// Role gates which surfaces an account may use.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts a stored role name, rejecting anything but admin or user.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Account is a row of the account store.
type Account struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"rol"`
}

// Principal is the authenticated identity bound to a session.
type Principal struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

func (a *Account) Principal() *Principal {
	return &Principal{AccountID: a.ID, Username: a.Username, Role: a.Role}
}
