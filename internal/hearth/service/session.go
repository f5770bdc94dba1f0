package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/cryptox"
	"github.com/hearthhq/hearth/pkg/idx"
	"github.com/hearthhq/hearth/pkg/jwtx"
	"github.com/hearthhq/hearth/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// OAuth-only accounts alike. Callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrAccountDisabled = errors.New("account_disabled")
	ErrEmailTaken      = errors.New("email_taken")
	ErrWeakPassword    = errors.New("weak_password")
	ErrTooManyAttempts = errors.New("too_many_attempts")
	ErrInvalidSession  = errors.New("invalid_session")
)

// MinPasswordLength applies at registration only; existing hashes keep
// verifying whatever length they were created with.
const MinPasswordLength = 8

// SessionService owns credential verification and session token issuance.
type SessionService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	Verifier   *jwtx.Verifier
	Audit      *AuditService
	LoginGuard *LoginGuard
	Issuer     string
	SessionTTL time.Duration
	BcryptCost int
}

func (s *SessionService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Register creates a new account with the PARENT role and returns the user
// plus a fresh session. Email is normalized to lowercase before storage, so
// two registrations differing only by case race for one row and the loser
// sees ErrEmailTaken.
func (s *SessionService) Register(ctx context.Context, email, password, name, phoneNumber string, remoteAddr string) (domain.User, domain.SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.SessionToken{}, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, domain.SessionToken{}, ErrWeakPassword
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = cryptox.DefaultBcryptCost
	}
	hash, err := cryptox.HashPassword(password, cost)
	if err != nil {
		return domain.User{}, domain.SessionToken{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
		Role:         domain.RoleParent,
		Status:       domain.StatusActive,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.SessionToken{}, ErrEmailTaken
		}
		return domain.User{}, domain.SessionToken{}, err
	}

	s.Audit.Record(ctx, user.ID, domain.AuditRegister, "user", domain.AuditDetail{
		"email": user.Email,
	})

	token, err := s.IssueSession(ctx, user, remoteAddr)
	if err != nil {
		return domain.User{}, domain.SessionToken{}, err
	}
	return user, token, nil
}

// Authenticate verifies an email/password pair. Unknown email, wrong
// password and passwordless (OAuth-only) accounts all return
// ErrInvalidCredentials after comparable work, so response timing does not
// leak which one happened.
func (s *SessionService) Authenticate(ctx context.Context, email, password string, remoteAddr string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	if s.LoginGuard != nil && s.LoginGuard.Blocked(remoteAddr) {
		l.Info("login blocked", slog.String("remote_addr", remoteAddr))
		return domain.User{}, ErrTooManyAttempts
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.BurnPasswordCheck(password)
			s.noteFailure(remoteAddr)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if user.PasswordHash == "" {
		// OAuth-only account; indistinguishable from a bad password.
		cryptox.BurnPasswordCheck(password)
		s.noteFailure(remoteAddr)
		return domain.User{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		s.noteFailure(remoteAddr)
		return domain.User{}, ErrInvalidCredentials
	}

	if user.Status != domain.StatusActive {
		l.Info("login refused for non-active account",
			slog.String("user_id", user.ID),
			slog.String("status", string(user.Status)),
		)
		return domain.User{}, ErrAccountDisabled
	}

	if s.LoginGuard != nil {
		s.LoginGuard.RecordSuccess(remoteAddr)
	}
	return user, nil
}

// LoginWithProvider resolves an externally-authenticated identity to a local
// account, creating one on first sight. The provider has already verified
// the email; no password is involved.
func (s *SessionService) LoginWithProvider(ctx context.Context, provider, email, name string, remoteAddr string) (domain.User, domain.SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, domain.SessionToken{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Status != domain.StatusActive {
			return domain.User{}, domain.SessionToken{}, ErrAccountDisabled
		}
	case errors.Is(err, store.ErrNotFound):
		user = domain.User{
			ID:     idx.New().String(),
			Email:  email,
			Name:   name,
			Role:   domain.RoleParent,
			Status: domain.StatusActive,
		}
		if err := s.Store.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				// Lost a race with a concurrent first login; use the winner.
				user, err = s.Store.Users().GetUserByEmail(ctx, email)
				if err != nil {
					return domain.User{}, domain.SessionToken{}, err
				}
			} else {
				return domain.User{}, domain.SessionToken{}, err
			}
		} else {
			s.Audit.Record(ctx, user.ID, domain.AuditRegister, "user", domain.AuditDetail{
				"email":    user.Email,
				"provider": provider,
			})
		}
	default:
		return domain.User{}, domain.SessionToken{}, err
	}

	token, err := s.IssueSession(ctx, user, remoteAddr)
	if err != nil {
		return domain.User{}, domain.SessionToken{}, err
	}
	return user, token, nil
}

// IssueSession signs a session token for an already-authenticated user,
// stamps last_login_at and records a LOGIN audit entry. The role embedded in
// the token is a snapshot; later role changes surface only after re-issue.
func (s *SessionService) IssueSession(ctx context.Context, user domain.User, remoteAddr string) (domain.SessionToken, error) {
	now := time.Now().UTC()

	claims := jwtx.NewSessionClaims(
		user.ID, string(user.Role), user.Email, user.Name,
		s.ttl(), s.Issuer, now,
	)
	raw, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.SessionToken{}, err
	}

	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		slogx.FromContext(ctx).Error("last login stamp failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	s.Audit.Record(ctx, user.ID, domain.AuditLogin, "session", domain.AuditDetail{
		"remote_addr": remoteAddr,
	})

	return domain.SessionToken{
		Token:     raw,
		TokenType: "Bearer",
		ExpiresIn: int64(s.ttl() / time.Second),
	}, nil
}

// VerifySession validates a raw token and returns the identity embedded in
// it. Purely stateless; no store access.
func (s *SessionService) VerifySession(raw string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return domain.Identity{}, ErrInvalidSession
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Identity{}, ErrInvalidSession
	}
	return domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}

// Revoke ends a session. Tokens are stateless so there is nothing to delete;
// the observable effect is the LOGOUT audit entry, and the client discards
// its copy.
func (s *SessionService) Revoke(ctx context.Context, identity domain.Identity) {
	s.Audit.Record(ctx, identity.UserID, domain.AuditLogout, "session", nil)
}

func (s *SessionService) noteFailure(remoteAddr string) {
	if s.LoginGuard != nil {
		s.LoginGuard.RecordFailure(remoteAddr)
	}
}
