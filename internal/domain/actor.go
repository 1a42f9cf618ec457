package domain

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// Actor is an identity already verified upstream.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Contact is the addressable side of a user, used by notification channels.
type Contact struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
