package dto

import "vidshare/internal/httpapi/models"

// AuthRequest drives POST /api/auth; action is "login" or "logout".
type AuthRequest struct {
	Action   string `json:"action" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest for POST /api/register. Validation is eager and
// field-keyed, so no binding tags here - the service collects everything.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// UserPayload is the user shape embedded in auth responses.
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	IsStaff  bool   `json:"is_staff"`
}

func FromModelToUserPayload(u *models.User) UserPayload {
	return UserPayload{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		UserType: u.UserType,
		IsStaff:  u.IsStaff,
	}
}
