package identity

import (
	"github.com/zenithstudio/backend/internal/domain/identity"
	"github.com/zenithstudio/backend/internal/infrastructure/auth"
)

// RegisterInput carries a self-service registration. The email must
// have been verified with a registration code first.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile,omitempty" binding:"omitempty,inmobile"`
	Role     string `json:"role,omitempty"` // defaults to user; admin is never self-service
	OTP      string `json:"otp"`
}

// LoginInput carries login credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a successful authentication
type LoginResult struct {
	Token *auth.Token    `json:"token"`
	User  *identity.User `json:"user"`
}

// ResetPasswordInput completes the forgot-password flow
type ResetPasswordInput struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// CreateUserInput is the back-office user creation payload
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile,omitempty" binding:"omitempty,inmobile"`
	Role     string `json:"role"`
}

// UpdateProfileInput edits the mutable profile fields; nil leaves a
// field unchanged.
type UpdateProfileInput struct {
	Name   *string `json:"name,omitempty"`
	Mobile *string `json:"mobile,omitempty"`
}

// ListUsersInput narrows user listings
type ListUsersInput struct {
	Role   string `json:"role,omitempty" form:"role"`
	Status string `json:"status,omitempty" form:"status"`
	Search string `json:"search,omitempty" form:"search"`
	Limit  int    `json:"limit,omitempty" form:"limit"`
	Offset int    `json:"offset,omitempty" form:"offset"`
}

// ListUsersResult is a page of users plus the unpaged total
type ListUsersResult struct {
	Users []*identity.User `json:"users"`
	Total int64            `json:"total"`
}
