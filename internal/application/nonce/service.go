// Package nonce implements the single-use nonce store. A nonce proves
// control of a contact address: it is minted with an onboarding state,
// delivered out-of-band, and consumed exactly once on redemption.
package nonce

import (
	"context"
	"fmt"
	"time"

	"github.com/passwordless-api/internal/domain"
	pkgtoken "github.com/passwordless-api/internal/pkg/token"
)

const nonceValueBytes = 16

type Service interface {
	// Issue mints a fresh nonce for contact carrying state. Any prior
	// outstanding nonce for the same contact is invalidated.
	Issue(ctx context.Context, contact string, state domain.OnboardingState) (*domain.Nonce, error)
	// Validate is a pure check: it fails with ErrNonceNotFound or
	// ErrNonceExpired and never mutates the store.
	Validate(ctx context.Context, value string) (*domain.Nonce, error)
	ContactOf(ctx context.Context, value string) (string, error)
	StateOf(ctx context.Context, value string) (domain.OnboardingState, error)
	// Consume atomically deletes the contact's nonce if it still carries
	// value. Exactly one of any concurrent consumers succeeds.
	Consume(ctx context.Context, contact, value string) error
	// Delete removes any outstanding nonce for contact. Idempotent.
	Delete(ctx context.Context, contact string) error
}

type nonceStore interface {
	Put(ctx context.Context, n *domain.Nonce) error
	GetByValue(ctx context.Context, value string) (*domain.Nonce, error)
	Delete(ctx context.Context, contact string) error
	ConsumeByValue(ctx context.Context, contact, value string) error
}

type service struct {
	repo   nonceStore
	expiry time.Duration
	now    func() time.Time
}

func NewService(repo nonceStore, expiry time.Duration) Service {
	return &service{repo: repo, expiry: expiry, now: time.Now}
}

func (s *service) Issue(ctx context.Context, contact string, state domain.OnboardingState) (*domain.Nonce, error) {
	value, err := pkgtoken.New(nonceValueBytes)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	n := &domain.Nonce{
		Contact:   contact,
		Value:     value,
		State:     state,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.expiry).Unix(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Validate(ctx context.Context, value string) (*domain.Nonce, error) {
	n, err := s.repo.GetByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if n.Expired(s.now()) {
		return nil, fmt.Errorf("nonce for %s: %w", n.Contact, domain.ErrNonceExpired)
	}
	return n, nil
}

func (s *service) ContactOf(ctx context.Context, value string) (string, error) {
	n, err := s.Validate(ctx, value)
	if err != nil {
		return "", err
	}
	return n.Contact, nil
}

func (s *service) StateOf(ctx context.Context, value string) (domain.OnboardingState, error) {
	n, err := s.Validate(ctx, value)
	if err != nil {
		return "", err
	}
	return n.State, nil
}

func (s *service) Consume(ctx context.Context, contact, value string) error {
	return s.repo.ConsumeByValue(ctx, contact, value)
}

func (s *service) Delete(ctx context.Context, contact string) error {
	return s.repo.Delete(ctx, contact)
}
