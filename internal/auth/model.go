package auth

import "time"

const RoleVendor = "VENDOR"

// User is a stall owner account.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
}
