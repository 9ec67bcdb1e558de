package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fifa-tracker/internal/config"
	"fifa-tracker/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownNonce     = errors.New("unknown or already used login nonce")
	ErrExpiredPayload   = errors.New("login payload expired")
	ErrAddressMismatch  = errors.New("payload address mismatch")
	ErrInvalidSignature = errors.New("signature rejected by auth provider")
	ErrInvalidToken     = errors.New("invalid session token")
)

// LoginPayload is the challenge a wallet signs to prove ownership of an
// address. Mirrors the provider's sign-in-with-wallet payload shape.
type LoginPayload struct {
	Domain         string    `json:"domain"`
	Address        string    `json:"address"`
	ChainID        int64     `json:"chain_id"`
	Nonce          string    `json:"nonce"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpirationTime time.Time `json:"expiration_time"`
}

type Service struct {
	cfg      *config.Config
	verifier Verifier
	logger   zerolog.Logger

	mu      sync.Mutex
	pending map[string]LoginPayload // keyed by nonce
}

func NewService(cfg *config.Config, verifier Verifier, logger zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		verifier: verifier,
		logger:   logger,
		pending:  make(map[string]LoginPayload),
	}
}

// GeneratePayload builds a single-use login challenge for the address
// and remembers it until it is consumed or expires.
func (s *Service) GeneratePayload(address string, chainID int64) (LoginPayload, error) {
	nonce, err := gonanoid.New()
	if err != nil {
		return LoginPayload{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := time.Now()
	payload := LoginPayload{
		Domain:         s.cfg.AuthDomain,
		Address:        address,
		ChainID:        chainID,
		Nonce:          nonce,
		IssuedAt:       now,
		ExpirationTime: now.Add(constants.LoginPayloadTTL),
	}

	s.mu.Lock()
	s.prunePendingLocked(now)
	s.pending[nonce] = payload
	s.mu.Unlock()

	s.logger.Debug().Str("address", address).Int64("chain_id", chainID).Msg("login payload generated")
	return payload, nil
}

// Login consumes a pending payload, delegates signature verification to
// the provider, and on success issues a signed session token.
func (s *Service) Login(ctx context.Context, payload LoginPayload, signature string) (token string, address string, err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.AuthProviderTimeout)
	defer cancel()

	s.mu.Lock()
	issued, ok := s.pending[payload.Nonce]
	delete(s.pending, payload.Nonce)
	s.mu.Unlock()

	if !ok {
		return "", "", ErrUnknownNonce
	}
	if issued.Address != payload.Address {
		return "", "", ErrAddressMismatch
	}
	if time.Now().After(issued.ExpirationTime) {
		return "", "", ErrExpiredPayload
	}

	result, err := s.verifier.VerifyPayload(ctx, payload, signature)
	if err != nil {
		s.logger.Error().Err(err).Str("address", payload.Address).Msg("auth provider verification failed")
		return "", "", fmt.Errorf("failed to verify payload: %w", err)
	}
	if !result.Valid {
		s.logger.Warn().Str("address", payload.Address).Msg("signature rejected")
		return "", "", ErrInvalidSignature
	}

	token, err = s.issueToken(result.Address)
	if err != nil {
		return "", "", err
	}

	s.logger.Info().Str("address", result.Address).Msg("wallet login succeeded")
	return token, result.Address, nil
}

// VerifyToken parses a session token and returns the wallet address it
// was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) issueToken(address string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.AuthDomain,
		Subject:   address,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (s *Service) prunePendingLocked(now time.Time) {
	for nonce, payload := range s.pending {
		if now.After(payload.ExpirationTime) {
			delete(s.pending, nonce)
		}
	}
}
