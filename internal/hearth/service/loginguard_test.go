package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginGuardWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	g := NewLoginGuard()
	g.now = func() time.Time { return now }

	for i := 0; i < MaxFailedLogins-1; i++ {
		g.RecordFailure("10.0.0.1")
	}
	require.False(t, g.Blocked("10.0.0.1"))

	g.RecordFailure("10.0.0.1")
	require.True(t, g.Blocked("10.0.0.1"))
	require.False(t, g.Blocked("10.0.0.2"))

	// Old attempts age out of the window.
	now = now.Add(FailedLoginWindow + time.Minute)
	require.False(t, g.Blocked("10.0.0.1"))
}

func TestLoginGuardSuccessClears(t *testing.T) {
	t.Parallel()

	g := NewLoginGuard()
	for i := 0; i < MaxFailedLogins; i++ {
		g.RecordFailure("10.0.0.3")
	}
	require.True(t, g.Blocked("10.0.0.3"))

	g.RecordSuccess("10.0.0.3")
	require.False(t, g.Blocked("10.0.0.3"))
}
