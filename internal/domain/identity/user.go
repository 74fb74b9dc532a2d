package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zenithstudio/backend/internal/domain/shared"
)

// Role decides which rate card column the user's orders are priced
// against, and whether back-office endpoints are reachable.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleRetailer     Role = "retailer"
	RoleProfessional Role = "professional"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleRetailer, RoleProfessional:
		return true
	}
	return false
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

// maxFailedAttempts triggers a temporary lock
const maxFailedAttempts = 5

// User is the aggregate root for account operations. Email is the
// login identifier.
type User struct {
	shared.BaseAggregateRoot
	Email          string
	Mobile         string
	PasswordHash   string
	Name           string
	Role           Role
	Status         UserStatus
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active account with the given role
func NewUser(email, password, name string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		Name:              strings.TrimSpace(name),
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password without checking the old one. Used
// by the OTP reset flow after the code has been verified.
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before replacing it
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetMobile sets the user's mobile number
func (u *User) SetMobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile != "" && !mobilePattern.MatchString(mobile) {
		return shared.NewDomainError("INVALID_MOBILE", "Mobile must be a 10 digit number")
	}
	u.Mobile = mobile
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetName sets the user's display name
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangeRole switches the pricing tier of the account
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// IsLocked reports whether the account is currently locked out
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// RecordLoginSuccess clears the failure counter
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure increments the failure counter, locking the
// account for the given duration once the limit is reached.
func (u *User) RecordLoginFailure(lockFor time.Duration) bool {
	u.FailedAttempts++
	locked := false
	if u.FailedAttempts >= maxFailedAttempts {
		until := time.Now().Add(lockFor)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		locked = true
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return locked
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Activate re-enables a deactivated or locked account and clears the
// failure counter.
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.LockedUntil = nil
	u.FailedAttempts = 0
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// IsAdmin reports whether the account has back-office access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
