package service

import (
	"context"
	"errors"
	"net/url"
	"storerating/internal/auth"
	"storerating/internal/config"
	"storerating/internal/entity"
	"storerating/internal/mailer"
	"storerating/internal/metrics"
	"storerating/internal/model"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ResetRequestedMessage is returned for every reset request so callers cannot
// probe which emails are registered.
const ResetRequestedMessage = "If that email is registered, you will receive a reset link"

const defaultResetTTL = time.Hour

// AuthService handles signup, login, password change and password reset.
type AuthService struct {
	repo        model.Repository
	tokens      *auth.Manager
	mailer      mailer.Mailer
	resetTTL    time.Duration
	frontendURL string
	now         func() time.Time
}

// NewAuthService creates the authentication service.
func NewAuthService(repo model.Repository, tokens *auth.Manager, mail mailer.Mailer, cfg config.Config) *AuthService {
	ttl := time.Duration(cfg.ResetTokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultResetTTL
	}
	if mail == nil {
		mail = mailer.LogMailer{}
	}
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		mailer:      mail,
		resetTTL:    ttl,
		frontendURL: strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/"),
		now:         time.Now,
	}
}

// Signup registers a normal user and signs them in.
func (s *AuthService) Signup(ctx context.Context, req entity.AuthSignupRequest) (*entity.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("lookup user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}
	user := &entity.DbUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         entity.RoleNormalUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, internalError("create user", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user signed up")
	return s.issue(user, "User registered successfully")
}

// Login verifies credentials. Unknown email and wrong password fail alike.
func (s *AuthService) Login(ctx context.Context, req entity.AuthLoginRequest) (*entity.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// keep timing close to the known-email path
			_ = auth.VerifyPassword(dummyHash(), req.Password)
			metrics.ObserveLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, internalError("lookup user", err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		metrics.ObserveLogin(false)
		return nil, ErrInvalidCredentials
	}

	metrics.ObserveLogin(true)
	return s.issue(user, "Login successful")
}

// Me returns the current user's public profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*entity.UserSummary, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("load user", err)
	}
	summary := user.ToSummary()
	return &summary, nil
}

// ChangePassword replaces the password after re-checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req entity.ChangePasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return internalError("load user", err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrWrongCurrentPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return internalError("hash password", err)
	}
	if err := s.repo.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return internalError("update password", err)
	}
	logrus.WithField("user_id", user.ID).Info("password changed")
	return nil
}

// RequestReset issues a reset token and mails the link when the email is
// registered. Unknown emails and mail failures are indistinguishable from
// success for the caller.
func (s *AuthService) RequestReset(ctx context.Context, req entity.ResetPasswordRequest) error {
	metrics.ObserveResetRequest()
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return internalError("lookup user", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return internalError("generate reset token", err)
	}
	reset := &entity.DbPasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.repo.CreatePasswordReset(ctx, reset); err != nil {
		return internalError("store reset token", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(token)); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to send password reset email")
		return nil
	}
	logrus.WithField("user_id", user.ID).Info("password reset requested")
	return nil
}

// PerformReset sets a new password using a valid reset token. The token is
// single-use: it is removed together with the password write.
func (s *AuthService) PerformReset(ctx context.Context, req entity.PerformResetRequest) error {
	req.Token = strings.TrimSpace(req.Token)
	if err := validateRequest(req); err != nil {
		return err
	}

	reset, err := s.repo.GetPasswordResetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return internalError("lookup reset token", err)
	}
	if reset.Expired(s.now()) {
		if err := s.repo.DeletePasswordResetByID(ctx, reset.ID); err != nil {
			logrus.WithError(err).WithField("reset_id", reset.ID).Warn("failed to delete expired reset token")
		}
		return ErrInvalidOrExpiredToken
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return internalError("hash password", err)
	}
	if err := s.repo.ConsumePasswordReset(ctx, reset.ID, reset.UserID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return internalError("consume reset token", err)
	}
	logrus.WithField("user_id", reset.UserID).Info("password reset completed")
	return nil
}

func (s *AuthService) issue(user *entity.DbUser, message string) (*entity.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, internalError("generate token", err)
	}
	return &entity.AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToSummary(),
	}, nil
}

func (s *AuthService) resetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = auth.HashPassword("Unused!Password1")
	})
	return dummyHashValue
}
