package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/moham3d/clinic-records/internal/audit"
	"github.com/moham3d/clinic-records/internal/hash"
	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/tokens"
	"github.com/moham3d/clinic-records/internal/transport"
)

type AuthService struct {
	Repo  repo.GormRepo
	Codec *tokens.Codec
	Audit *audit.Producer
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		return nil, NewValidationError(map[string]string{"credentials": "username and password are required"})
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		l.Warn("login_failed", "reason", "inactive account", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "bad password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	result, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.TouchLastLogin(ctx, user.ID); err != nil {
		l.Error("last_login_update_failed", "user_id", user.ID, "error", err)
	}

	s.emit(ctx, "user_login", user.ID.String(), map[string]any{"username": user.Username})
	l.Info("login_successful", "user_id", user.ID)
	return result, nil
}

// issuePair opens a new session and mints its first token pair.
func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*LoginResult, error) {
	sessionID := uuid.New()

	refreshToken, jti, refreshExp, err := s.Codec.IssueRefresh(user.ID.String(), sessionID.String())
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:         sessionID,
		UserID:     user.ID,
		CurrentJTI: jti,
		ExpiresAt:  refreshExp.Unix(),
	}
	if err := s.Repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	accessToken, _, err := s.Codec.IssueAccess(
		user.ID.String(),
		user.Username,
		user.Role,
		models.PermissionsFor(user.Role),
		sessionID.String(),
	)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.Codec.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, NewValidationError(map[string]string{"refresh_token": "refresh token is required"})
	}

	claims, err := s.Codec.ParseRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "reason", "decode", "error", err)
		return nil, ErrInvalidRefresh
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil || !user.IsActive {
		l.Warn("refresh_failed", "reason", "user unavailable")
		return nil, ErrInvalidRefresh
	}

	newRefresh, newJTI, newExp, err := s.Codec.IssueRefresh(user.ID.String(), sessionID.String())
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateSession(ctx, sessionID, claims.ID, newJTI, newExp.Unix()); err != nil {
		switch {
		case errors.Is(err, repo.ErrTokenReuse):
			l.Warn("refresh_failed", "reason", "token reuse", "user_id", user.ID, "session_id", sessionID)
			s.emit(ctx, "refresh_token_reuse", user.ID.String(), map[string]any{"session_id": sessionID.String()})
			return nil, ErrTokenReuse
		case errors.Is(err, repo.ErrSessionInvalid):
			return nil, ErrInvalidRefresh
		default:
			return nil, err
		}
	}

	accessToken, _, err := s.Codec.IssueAccess(
		user.ID.String(),
		user.Username,
		user.Role,
		models.PermissionsFor(user.Role),
		sessionID.String(),
	)
	if err != nil {
		return nil, err
	}

	l.Info("refresh_successful", "user_id", user.ID, "session_id", sessionID)
	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    int(s.Codec.AccessTTL().Seconds()),
	}, nil
}

// Logout ends the caller's session. With allSessions it revokes every
// session the user has, on this and every other device.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID uuid.UUID, allSessions bool) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	var err error
	if allSessions {
		err = s.Repo.RevokeUserSessions(ctx, userID)
	} else {
		err = s.Repo.RevokeSession(ctx, sessionID)
	}
	if err != nil {
		return err
	}

	s.emit(ctx, "user_logout", userID.String(), map[string]any{
		"session_id":   sessionID.String(),
		"all_sessions": allSessions,
	})
	l.Info("logout_successful", "user_id", userID, "all_sessions", allSessions)
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if violations := PasswordViolations(req.Password); len(violations) > 0 {
		return nil, &WeakPasswordError{Violations: violations}
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.emit(ctx, "user_registered", user.ID.String(), map[string]any{
		"username": user.Username,
		"role":     user.Role,
	})
	l.Info("register_successful", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// ChangePassword updates the digest and revokes every session for the
// user, forcing re-login everywhere.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req transport.ChangePasswordRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password")

	if req.NewPassword != req.ConfirmNewPassword {
		return ErrPasswordMismatch
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		l.Warn("change_password_failed", "reason", "bad current password", "user_id", userID)
		return ErrInvalidCurrentPassword
	}

	if violations := PasswordViolations(req.NewPassword); len(violations) > 0 {
		return &WeakPasswordError{Violations: violations}
	}

	if hash.CheckPassword(user.PasswordHash, req.NewPassword) {
		return ErrPasswordReuse
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, newHash); err != nil {
		return err
	}
	if err := s.Repo.RevokeUserSessions(ctx, userID); err != nil {
		return err
	}

	s.emit(ctx, "password_changed", userID.String(), nil)
	l.Info("change_password_successful", "user_id", userID)
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]any{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		return nil, NewValidationError(map[string]string{"body": "no updatable fields provided"})
	}

	user, err := s.Repo.UpdateUserFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, "profile_updated", userID.String(), nil)
	return user, nil
}

func (s *AuthService) emit(ctx context.Context, eventType, actorID string, data map[string]any) {
	event := audit.Event{Type: eventType, ActorID: actorID, Data: data}
	if err := s.Audit.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Error("audit_publish_failed", "type", eventType, "error", err)
	}
}
