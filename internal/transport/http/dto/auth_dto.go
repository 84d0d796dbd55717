package dto

import (
	"strings"

	"github.com/taskhive/backend/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *RegisterRequest) Validate() []string {
	var errors []string
	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, "name is required")
	}
	if !strings.Contains(r.Email, "@") {
		errors = append(errors, "email is not valid")
	}
	if len(r.Password) < 8 {
		errors = append(errors, "password must be at least 8 characters")
	}
	if r.Role != "" {
		switch domain.Role(r.Role) {
		case domain.RoleUser, domain.RoleManager, domain.RoleAdmin:
		default:
			errors = append(errors, "role must be one of: user, manager, admin")
		}
	}
	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CommentRequest struct {
	Content string `json:"content"`
}
