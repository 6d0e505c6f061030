package model

// User mirrors the backend user resource.  Password is only sent on
// create/update and never echoed by the backend.
type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,vnphone"`
	Role     string `json:"role" validate:"omitempty,oneof=CUSTOMER ADMIN"`
	RankID   ID     `json:"rank_id,omitempty"`
	Points   int    `json:"points,omitempty" validate:"gte=0"`
	Active   bool   `json:"is_active"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,vnphone"`
}

// AuthResult is what the backend returns on login/register.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
