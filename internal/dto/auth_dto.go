package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateStaffRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	PIN      *string `json:"pin"      validate:"omitempty,numeric,len=4"`
	Role     string  `json:"role"     validate:"required,oneof=admin manager cashier"`
}

type UpdateStaffRequest struct {
	Username string  `json:"username" validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=8"`
	PIN      *string `json:"pin"      validate:"omitempty,numeric,len=4"`
	Role     string  `json:"role"     validate:"omitempty,oneof=admin manager cashier"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StaffResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"` // seconds
	User         StaffResponse `json:"user"`
}
