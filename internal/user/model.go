package user

import "aviorie-web/internal/role"

// User is the account record the backend returns on login and in user lists.
type User struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       string  `json:"role"`
	Address    string  `json:"address"`
	AreaID     *string `json:"area_id,omitempty"`
	Area       string  `json:"area,omitempty"`
	IsApproved bool    `json:"is_approved"`
	IsActive   bool    `json:"is_active"`
}

// RoleOf resolves the user's role string into its variant.
func (u User) RoleOf() (role.Role, bool) {
	area := ""
	if u.AreaID != nil {
		area = *u.AreaID
	}
	return role.Parse(u.Role, area)
}

// IsApprovedPartner reports whether u is a delivery partner cleared to take
// deliveries.
func (u User) IsApprovedPartner() bool {
	return role.Kind(u.Role) == role.KindDeliveryPartner && u.IsApproved
}

type RegisterRequest struct {
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	Address  string  `json:"address"`
	AreaID   *string `json:"area_id,omitempty"`
}

type RegisterResponse struct {
	RequiresOTP bool   `json:"requires_otp"`
	UserID      string `json:"user_id"`
	Message     string `json:"message,omitempty"`
}

type LoginRequest struct {
	// Login is an email address or a phone number.
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	RequiresApproval bool   `json:"requires_approval"`
	Token            string `json:"token"`
	User             *User  `json:"user"`
	Message          string `json:"message,omitempty"`
}
