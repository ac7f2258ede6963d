// Package token implements the token issuer: long-lived opaque refresh
// tokens persisted per user, exchanged for short-lived signed access tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/passwordless-api/internal/domain"
	pkgtoken "github.com/passwordless-api/internal/pkg/token"
)

const refreshTokenBytes = 32

type Service interface {
	// IssueRefreshToken mints and persists a refresh token bound to userID.
	IssueRefreshToken(ctx context.Context, userID string) (*domain.RefreshToken, error)
	// RedeemForAccessToken exchanges a live refresh token for a signed
	// access token whose subject is the bound user id. Minting persists
	// nothing — access tokens are verified statelessly later.
	RedeemForAccessToken(ctx context.Context, token string) (string, error)
	// ValidateRefreshToken is a pure check mirroring the redemption
	// failure modes.
	ValidateRefreshToken(ctx context.Context, token string) error
	// Revoke marks all of userID's live refresh tokens revoked. Idempotent.
	Revoke(ctx context.Context, userID string) error
}

type refreshTokenStore interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	RevokeAllForUser(ctx context.Context, userID string) error
}

type accessSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	repo   refreshTokenStore
	signer accessSigner
}

func NewService(repo refreshTokenStore, signer accessSigner) Service {
	return &service{repo: repo, signer: signer}
}

func (s *service) IssueRefreshToken(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	value, err := pkgtoken.New(refreshTokenBytes)
	if err != nil {
		return nil, err
	}
	t := &domain.RefreshToken{
		Token:    value,
		UserID:   userID,
		IssuedAt: time.Now().UTC(),
		Revoked:  false,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) RedeemForAccessToken(ctx context.Context, token string) (string, error) {
	t, err := s.lookup(ctx, token)
	if err != nil {
		return "", err
	}
	if s.signer == nil {
		return "", errors.New("access token signing unavailable: no signing key configured")
	}
	return s.signer.Sign(t.UserID)
}

func (s *service) ValidateRefreshToken(ctx context.Context, token string) error {
	_, err := s.lookup(ctx, token)
	return err
}

func (s *service) Revoke(ctx context.Context, userID string) error {
	return s.repo.RevokeAllForUser(ctx, userID)
}

func (s *service) lookup(ctx context.Context, token string) (*domain.RefreshToken, error) {
	t, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.Revoked {
		return nil, fmt.Errorf("refresh token for user %s: %w", t.UserID, domain.ErrRefreshTokenRevoked)
	}
	return t, nil
}
