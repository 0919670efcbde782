package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit"
	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/Payphone-Digital/referral/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Phone    string
	Password string
	Name     string
	Email    string
}

type LoginResult struct {
	Token string
	User  *model.User
}

type ProfileResult struct {
	User       *model.User
	Commission *model.CommissionRecord
}

type IdentityService struct {
	users      repository.UserRepository
	ledger     *LedgerService
	tokens     *JWTService
	audit      audit.Emitter
	bcryptCost int
	now        func() time.Time
}

func NewIdentityService(users repository.UserRepository, ledger *LedgerService, tokens *JWTService, emitter audit.Emitter, bcryptCost int) *IdentityService {
	if emitter == nil {
		emitter = audit.Discard
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityService{
		users:      users,
		ledger:     ledger,
		tokens:     tokens,
		audit:      emitter,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) error {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	if err := checkCredentialInput(in.Phone, in.Password); err != nil {
		return err
	}
	// bcrypt only looks at the first 72 bytes and refuses anything longer.
	if len(in.Password) > maxPasswordBytes {
		return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPasswordTooLong)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPasswordTooLong)
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").Err(err).Log()
		return apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("hash password: %w", err))
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		IsActive:     true,
		RegisteredAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.WarnWithContext(ctx, "Registration for existing phone").Phone(in.Phone).Log()
			return apperrors.ErrDuplicatePhone
		}
		logger.ErrorWithContext(ctx, "Failed to create user").Phone(in.Phone).Err(err).Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// The user exists now, so a ledger failure must not fail registration.
	// The record is created lazily by Profile and RecordReferral.
	if _, err := s.ledger.GetOrCreate(ctx, user.Phone); err != nil {
		logger.WarnWithContext(ctx, "Commission record not created at registration").
			Phone(user.Phone).
			Err(err).
			Log()
	}

	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Action:    constants.ActionRegistered,
		Status:    constants.StatusActive,
	})

	logger.InfoWithContext(ctx, "User registered").
		String("user_id", user.ID).
		Phone(user.Phone).
		Log()
	return nil
}

// Login checks the password for phone. Unknown phones and wrong passwords
// return the same error so callers cannot probe which numbers exist.
func (s *IdentityService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	if err := checkCredentialInput(phone, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.ErrorWithContext(ctx, "Failed to load user").Phone(phone).Err(err).Log()
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		s.emitLoginFailed(ctx, &model.User{Phone: phone}, constants.StatusInvalidPhone)
		logger.LogAuth(phone, "login", false, zap.String("reason", constants.StatusInvalidPhone))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.emitLoginFailed(ctx, user, constants.StatusInvalidPassword)
		logger.LogAuth(phone, "login", false, zap.String("reason", constants.StatusInvalidPassword))
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		logger.WarnWithContext(ctx, "Failed to update last login").String("user_id", user.ID).Err(err).Log()
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign token").String("user_id", user.ID).Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Action:    constants.ActionLoginSuccess,
		Status:    constants.StatusActive,
	})
	logger.LogAuth(phone, "login", true)

	return &LoginResult{Token: token, User: user}, nil
}

func (s *IdentityService) emitLoginFailed(ctx context.Context, user *model.User, status string) {
	s.audit.Emit(ctx, audit.Event{
		Timestamp: s.now(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Action:    constants.ActionLoginFailed,
		Status:    status,
	})
}

// Logout records the event for a known phone. It never fails and leaves
// tokens alone; see RevokeToken.
func (s *IdentityService) Logout(ctx context.Context, phone string) {
	ctx = ctxutil.WithFunction(ctx, "service", "Logout")

	if phone == "" {
		return
	}
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.WarnWithContext(ctx, "Failed to load user for logout").Phone(phone).Err(err).Log()
		}
		return
	}

	s.audit.Emit(ctx, audit.Event{
		Timestamp: s.now(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Action:    constants.ActionLogout,
		Status:    constants.StatusInactive,
	})
}

// VerifyToken returns the user id a valid token was issued to.
func (s *IdentityService) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RevokeToken invalidates token for the rest of its lifetime.
func (s *IdentityService) RevokeToken(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

func (s *IdentityService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

func (s *IdentityService) Profile(ctx context.Context, userID string) (*ProfileResult, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Profile")

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := s.ledger.GetOrCreate(ctx, user.Phone)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{User: user, Commission: rec}, nil
}

const maxPasswordBytes = 72

func checkCredentialInput(phone, password string) error {
	if phone == "" || password == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPhonePasswordRequired)
	}
	if !validation.IsPhone(phone) {
		return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPhoneFormat)
	}
	return nil
}
