package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/identity"
	"github.com/zenithstudio/backend/internal/domain/shared"
)

// UserService handles back-office user management and profile reads
type UserService struct {
	userRepo identity.Repository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.Repository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, logger: logger}
}

// CreateUser creates an account with an explicit role. Unlike
// registration this path may mint admins.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*identity.User, error) {
	user, err := identity.NewUser(input.Email, input.Password, input.Name, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if input.Mobile != "" {
		if err := user.SetMobile(input.Mobile); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return user, nil
}

// GetUser fetches a user by id
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetUserByEmail fetches a user by email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

// ListUsers returns a filtered page of users
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	filter := identity.Filter{
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.Role != "" {
		role := identity.Role(input.Role)
		if !role.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role filter")
		}
		filter.Role = &role
	}
	if input.Status != "" {
		status := identity.UserStatus(input.Status)
		filter.Status = &status
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListUsersResult{Users: users, Total: total}, nil
}

// UpdateProfile edits the mutable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Mobile != nil {
		if err := user.SetMobile(*input.Mobile); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole moves a user to a different pricing tier or grants admin
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role identity.Role) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed",
		zap.String("email", user.Email),
		zap.String("role", string(role)))
	return user, nil
}

// DeactivateUser disables an account. Existing tokens expire on their
// own; login is refused immediately.
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user deactivated", zap.String("email", user.Email))
	return nil
}

// ActivateUser re-enables a deactivated or locked account
func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user activated", zap.String("email", user.Email))
	return nil
}

// DeleteUser permanently removes an account
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}
