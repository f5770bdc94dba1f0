package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store/drivers/sqlite"
	"github.com/hearthhq/hearth/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSessionService(t *testing.T) (*SessionService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := jwtx.NewSigner("test-key", priv)
	require.NoError(t, err)

	verifier := jwtx.NewVerifier("hearth-test")
	verifier.AddKey("test-key", pub)

	svc := &SessionService{
		Store:      st,
		Signer:     signer,
		Verifier:   verifier,
		Audit:      &AuditService{Store: st},
		LoginGuard: NewLoginGuard(),
		Issuer:     "hearth-test",
		BcryptCost: bcrypt.MinCost,
	}
	return svc, st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, st := newSessionService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice@Example.com", "sup3rsecret", "Alice", "", "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, domain.RoleParent, user.Role)
	require.Equal(t, domain.StatusActive, user.Status)
	require.Equal(t, "Bearer", token.TokenType)
	require.NotEmpty(t, token.Token)

	identity, err := svc.VerifySession(token.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, domain.RoleParent, identity.Role)

	got, err := svc.Authenticate(ctx, "alice@example.com", "sup3rsecret", "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// Registration and login both audited.
	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{ActorID: user.ID})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "bob@example.com", "sup3rsecret", "Bob", "", "1.2.3.4")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "BOB@example.com", "anotherpass", "Bobby", "", "1.2.3.4")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newSessionService(t)

	_, _, err := svc.Register(context.Background(), "carol@example.com", "short", "Carol", "", "1.2.3.4")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "dave@example.com", "sup3rsecret", "Dave", "", "1.2.3.4")
	require.NoError(t, err)

	// Unknown email and wrong password return the same sentinel.
	_, err = svc.Authenticate(ctx, "nobody@example.com", "whatever1", "1.2.3.4")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "dave@example.com", "wrongpass1", "1.2.3.4")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateOAuthOnlyAccount(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, _, err := svc.LoginWithProvider(ctx, "google", "eve@example.com", "Eve", "1.2.3.4")
	require.NoError(t, err)

	// Password login against a passwordless account looks like bad creds.
	_, err = svc.Authenticate(ctx, "eve@example.com", "anypassword", "1.2.3.4")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, st := newSessionService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "frank@example.com", "sup3rsecret", "Frank", "", "1.2.3.4")
	require.NoError(t, err)

	status := domain.StatusSuspended
	_, err = st.Users().UpdateUser(ctx, user.ID, domain.UserPatch{Status: &status})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "frank@example.com", "sup3rsecret", "1.2.3.4")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLoginGuardBlocksAfterRepeatedFailures(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "grace@example.com", "sup3rsecret", "Grace", "", "9.9.9.9")
	require.NoError(t, err)

	for i := 0; i < MaxFailedLogins; i++ {
		_, err := svc.Authenticate(ctx, "grace@example.com", "wrongpass1", "9.9.9.9")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Even the right password is refused now.
	_, err = svc.Authenticate(ctx, "grace@example.com", "sup3rsecret", "9.9.9.9")
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// A different address is unaffected.
	_, err = svc.Authenticate(ctx, "grace@example.com", "sup3rsecret", "8.8.8.8")
	require.NoError(t, err)
}

func TestIssueSessionStampsLastLoginAndAudits(t *testing.T) {
	svc, st := newSessionService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "henry@example.com", "sup3rsecret", "Henry", "", "1.2.3.4")
	require.NoError(t, err)

	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, time.Now(), *got.LastLoginAt, 5*time.Second)

	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{
		ActorID: user.ID,
		Action:  domain.AuditLogin,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestVerifySessionRejectsGarbage(t *testing.T) {
	svc, _ := newSessionService(t)

	_, err := svc.VerifySession("not.a.token")
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestRevokeRecordsLogout(t *testing.T) {
	svc, st := newSessionService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "iris@example.com", "sup3rsecret", "Iris", "", "1.2.3.4")
	require.NoError(t, err)

	svc.Revoke(ctx, domain.Identity{UserID: user.ID, Role: user.Role})

	entries, err := st.AuditLogs().ListEntries(ctx, domain.AuditFilter{
		ActorID: user.ID,
		Action:  domain.AuditLogout,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
