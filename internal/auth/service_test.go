package auth

import (
	"context"
	"errors"
	"testing"

	"fifa-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "0x1234567890abcdef1234567890abcdef12345678"

type stubVerifier struct {
	result *VerifyResult
	err    error
}

func (s *stubVerifier) VerifyPayload(ctx context.Context, payload LoginPayload, signature string) (*VerifyResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newAuthService(verifier Verifier) *Service {
	cfg := &config.Config{
		AuthDomain:    "tracker.test",
		SessionSecret: "test-secret",
	}
	return NewService(cfg, verifier, zerolog.Nop())
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}})
	ctx := context.Background()

	payload, err := svc.GeneratePayload(testWallet, 1)
	require.NoError(t, err)
	assert.Equal(t, "tracker.test", payload.Domain)
	assert.Equal(t, testWallet, payload.Address)
	assert.NotEmpty(t, payload.Nonce)
	assert.True(t, payload.ExpirationTime.After(payload.IssuedAt))

	token, address, err := svc.Login(ctx, payload, "0xsignature")
	require.NoError(t, err)
	assert.Equal(t, testWallet, address)

	got, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, testWallet, got)
}

func TestLoginNonceIsSingleUse(t *testing.T) {
	t.Parallel()
	svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}})
	ctx := context.Background()

	payload, err := svc.GeneratePayload(testWallet, 1)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, payload, "0xsignature")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, payload, "0xsignature")
	assert.ErrorIs(t, err, ErrUnknownNonce)
}

func TestLoginRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown nonce", func(t *testing.T) {
		svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}})
		_, _, err := svc.Login(ctx, LoginPayload{Nonce: "never-issued"}, "0xsignature")
		assert.ErrorIs(t, err, ErrUnknownNonce)
	})

	t.Run("address mismatch", func(t *testing.T) {
		svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}})
		payload, err := svc.GeneratePayload(testWallet, 1)
		require.NoError(t, err)

		payload.Address = "0xsomeoneelse"
		_, _, err = svc.Login(ctx, payload, "0xsignature")
		assert.ErrorIs(t, err, ErrAddressMismatch)
	})

	t.Run("signature rejected", func(t *testing.T) {
		svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: false}})
		payload, err := svc.GeneratePayload(testWallet, 1)
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, payload, "0xbad")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("provider unreachable", func(t *testing.T) {
		svc := newAuthService(&stubVerifier{err: errors.New("connection refused")})
		payload, err := svc.GeneratePayload(testWallet, 1)
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, payload, "0xsignature")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestVerifyTokenRejectsForgeries(t *testing.T) {
	t.Parallel()

	svc := newAuthService(&stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(&config.Config{
			AuthDomain:    "tracker.test",
			SessionSecret: "different-secret",
		}, &stubVerifier{result: &VerifyResult{Valid: true, Address: testWallet}}, zerolog.Nop())

		token, err := other.issueToken(testWallet)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
