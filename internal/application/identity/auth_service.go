// Package identity exposes authentication, password reset and user
// management on top of the user aggregate.
package identity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/identity"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/auth"
	"github.com/zenithstudio/backend/internal/infrastructure/notification"
)

// AuthServiceConfig tunes lockout and reset code behaviour
type AuthServiceConfig struct {
	LockDuration time.Duration
	OTPTTL       time.Duration
	OTPLength    int
}

// DefaultAuthServiceConfig returns the production defaults
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		LockDuration: 15 * time.Minute,
		OTPTTL:       identity.DefaultOTPTTL,
		OTPLength:    6,
	}
}

// AuthService handles registration, login and the OTP reset flow
type AuthService struct {
	userRepo identity.Repository
	jwt      *auth.JWTService
	otpStore identity.OTPStore
	mailer   notification.EmailSender
	config   AuthServiceConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service. The mailer may be nil in
// development; OTP codes are then only logged.
func NewAuthService(
	userRepo identity.Repository,
	jwt *auth.JWTService,
	otpStore identity.OTPStore,
	mailer notification.EmailSender,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.LockDuration <= 0 {
		config.LockDuration = DefaultAuthServiceConfig().LockDuration
	}
	if config.OTPTTL <= 0 {
		config.OTPTTL = identity.DefaultOTPTTL
	}
	if config.OTPLength <= 0 {
		config.OTPLength = 6
	}
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		otpStore: otpStore,
		mailer:   mailer,
		config:   config,
		logger:   logger,
	}
}

// RequestOTP issues a verification code to the email address and mails
// it. The same flow backs registration and forgot-password; the code
// is bound to the email, not to an account.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	code, err := identity.GenerateOTP(s.config.OTPLength)
	if err != nil {
		return err
	}
	if err := s.otpStore.Issue(ctx, email, code, s.config.OTPTTL); err != nil {
		return err
	}
	if s.mailer == nil {
		s.logger.Warn("no mailer configured, otp not delivered", zap.String("email", email))
		return nil
	}
	if err := s.mailer.Send(ctx, notification.OTPEmail(email, code, s.config.OTPTTL)); err != nil {
		s.logger.Error("otp email failed", zap.String("email", email), zap.Error(err))
		return err
	}
	s.logger.Info("otp issued", zap.String("email", email))
	return nil
}

// Register creates an account after consuming the verification code
// sent to the email. Admin accounts are never created this way.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*identity.User, error) {
	ok, err := s.otpStore.Verify(ctx, input.Email, input.OTP)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError("INVALID_OTP", "Verification code is invalid or expired")
	}

	role := identity.RoleUser
	if input.Role != "" {
		role = identity.Role(input.Role)
	}
	if role == identity.RoleAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Admin accounts cannot be self-registered")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.Name, role)
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

	s.logger.Info("user registered",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login authenticates a user and returns a signed token. Failures are
// counted; too many in a row lock the account for the configured
// duration.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect")
		}
		return nil, err
	}

	if user.Status == identity.UserStatusDeactivated {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been deactivated")
	}
	if user.IsLocked() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.String("email", user.Email), zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures", zap.String("email", user.Email))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email))
	return &LoginResult{Token: token, User: user}, nil
}

// RequestPasswordReset issues a reset code to the account's email. An
// unknown email is acknowledged without sending anything so the
// endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if err == shared.ErrNotFound {
			s.logger.Info("password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}
	return s.RequestOTP(ctx, email)
}

// ResetPassword completes the forgot-password flow: the code is
// consumed on success so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	ok, err := s.otpStore.Verify(ctx, input.Email, input.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewDomainError("INVALID_OTP", "Verification code is invalid or expired")
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("email", user.Email))
	return nil
}

// ValidateToken parses and validates an access token
func (s *AuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return s.jwt.ValidateToken(tokenString)
}
