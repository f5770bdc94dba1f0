package stripex

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func TestConstructEventAcceptsValidSignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":500}}}`)
	header := SignPayload(body, testSecret, time.Now())

	ev, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, "payment_intent.succeeded", ev.Type)
	require.Equal(t, "evt_1", ev.ID)
	require.JSONEq(t, `{"id":"pi_1","amount":500}`, string(ev.Data.Raw))
}

func TestConstructEventRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"x"}`)
	header := SignPayload(body, "whsec_other", time.Now())

	_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsTamperedBody(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	header := SignPayload(body, testSecret, time.Now())

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.payment_failed"}`)
	_, err := ConstructEvent(tampered, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRejectsMissingOrJunkHeader(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"x"}`)

	for _, header := range []string{"", "t=,v1=", "v1=abcdef", "t=123", "nonsense"} {
		_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
		require.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventRejectsStaleTimestamp(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"x"}`)
	header := SignPayload(body, testSecret, time.Now().Add(-time.Hour))

	_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventMalformedPayloadIsDistinct(t *testing.T) {
	t.Parallel()

	body := []byte(`this is not json`)
	header := SignPayload(body, testSecret, time.Now())

	_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrMalformedPayload)
	require.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventRequiresEventType(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1"}`)
	header := SignPayload(body, testSecret, time.Now())

	_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestVerifyHeaderAcceptsOneGoodAmongSeveral(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"evt_1","type":"x"}`)
	good := SignPayload(body, testSecret, time.Now())
	// A bogus v1 entry alongside the real one should not break verification.
	header := strings.Replace(good, ",v1=", ",v1=deadbeef,v1=", 1)

	_, err := ConstructEvent(body, header, testSecret, DefaultTolerance)
	require.NoError(t, err)
}
