package models

// User roles. Only buyers may use the storefront; other roles are
// turned away towards the access-denied view.
const (
	RoleBuyer   = "buyer"
	RoleAdmin   = "admin"
	RoleScanner = "scanner"
)

type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Balance   float64 `json:"balance"`
	Phone     string  `json:"phone,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Verified  bool    `json:"verified"`
}
