package service

import (
	"context"
	"strconv"
	"time"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
	"github.com/CernunnosYQ/blogfolio/internal/hash"
	"github.com/CernunnosYQ/blogfolio/internal/logging"
	"github.com/CernunnosYQ/blogfolio/internal/models"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/tokens"
)

type AuthService struct {
	Repo       *repo.Repo
	Codec      *tokens.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

// Login authenticates by username or email and mints the token pair.
// The refresh token is bound to the presented device fingerprint.
// Unknown user and wrong password produce the same error so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, login, password, fingerprint string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetActiveUserByLogin(ctx, login)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, apperr.Authentication("Invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "bad password", "user_id", user.ID)
		return nil, apperr.Authentication("Invalid username or password")
	}

	sub := strconv.FormatUint(uint64(user.ID), 10)
	now := time.Now()

	refreshToken, err := s.Codec.Encode(sub, fingerprint, s.RefreshTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not create refresh token", err)
	}

	accessToken, err := s.Codec.Encode(sub, "", s.AccessTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not create access token", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    now.Add(s.AccessTTL),
		RefreshExp:   now.Add(s.RefreshTTL),
		User:         user,
	}, nil
}

// Refresh mints a new access token from a live refresh token and the
// expired access token it was issued alongside. No password check and
// no database access: trust rests on the refresh signature, the device
// fingerprint, and the subject match between the two tokens. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, accessToken, fingerprint string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" || accessToken == "" {
		return "", apperr.Authentication("Missing token. Please login again.")
	}

	refreshClaims, err := s.Codec.DecodeStrict(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad refresh token")
		return "", apperr.Authentication("Invalid or expired token")
	}

	accessClaims, err := s.Codec.DecodeExpired(accessToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad access token")
		return "", apperr.Authentication("Invalid or expired token")
	}

	if refreshClaims.Fingerprint != fingerprint {
		l.Warn("refresh_failed", "status", 401, "reason", "fingerprint mismatch")
		return "", apperr.Authentication("Device mismatch. Please login again.")
	}

	if refreshClaims.Subject == "" || refreshClaims.Subject != accessClaims.Subject {
		l.Warn("refresh_failed", "status", 401, "reason", "subject mismatch")
		return "", apperr.Authentication("User ID mismatch. Please login again.")
	}

	newAccess, err := s.Codec.Encode(refreshClaims.Subject, "", s.AccessTTL)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", apperr.Wrap(apperr.KindInternal, "could not create access token", err)
	}

	l.Info("refresh_successful", "sub", refreshClaims.Subject)
	return newAccess, nil
}

// ResolveUser turns a bearer token into the calling user.
func (s *AuthService) ResolveUser(ctx context.Context, bearerToken string) (*models.User, error) {
	claims, err := s.Codec.DecodeStrict(bearerToken)
	if err != nil {
		return nil, apperr.Authentication("Invalid or expired token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperr.Authentication("Invalid or expired token")
	}

	return s.Repo.GetUserByID(ctx, uint(id))
}

// CanModify is the author-or-admin predicate gating resource mutation.
func CanModify(user *models.User, authorID uint) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || user.Role.IsAdmin()
}
