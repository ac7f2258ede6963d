// Package auth sequences the passwordless protocol: nonce issuance and
// delivery, nonce redemption into refresh tokens, contact management and
// token exchange. It owns no storage — every effect goes through the nonce
// store, the registry or the token issuer.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/passwordless-api/internal/application/nonce"
	"github.com/passwordless-api/internal/application/registry"
	"github.com/passwordless-api/internal/application/token"
	"github.com/passwordless-api/internal/domain"
	"github.com/passwordless-api/internal/infrastructure/delivery"
)

type Service interface {
	// SendNonce derives the onboarding state for contact, issues a nonce
	// and hands it to the delivery channel. Delivery failure surfaces as
	// ErrDeliveryFailed but never rolls back issuance.
	SendNonce(ctx context.Context, contact string, isAddingContact bool) error
	// NonceToRefreshToken redeems a nonce. A NewUser nonce requires a
	// profile and creates the user plus the contact binding; otherwise the
	// existing user is resolved from the contact. The nonce is consumed
	// atomically before a refresh token is minted, so concurrent
	// redemptions produce exactly one token.
	NonceToRefreshToken(ctx context.Context, nonceValue string, profile *domain.NewUserProfile) (*domain.RefreshToken, error)
	// NonceToAddContact binds the nonce's contact to the authenticated
	// caller's identity. The caller's id is authoritative — the contact is
	// new and resolves to no one yet. No refresh token is minted.
	NonceToAddContact(ctx context.Context, nonceValue, userID string) error
	RemoveContact(ctx context.Context, userID, contact string) error
	ListContacts(ctx context.Context, userID string) ([]domain.UserContact, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	RefreshTokenToAccessToken(ctx context.Context, refreshToken string) (string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

type service struct {
	nonces    nonce.Service
	registry  registry.Service
	tokens    token.Service
	deliverer delivery.Sender
}

type ServiceDeps struct {
	Nonces    nonce.Service
	Registry  registry.Service
	Tokens    token.Service
	Deliverer delivery.Sender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		nonces:    deps.Nonces,
		registry:  deps.Registry,
		tokens:    deps.Tokens,
		deliverer: deps.Deliverer,
	}
}

func (s *service) SendNonce(ctx context.Context, contact string, isAddingContact bool) error {
	exists, err := s.registry.ContactExists(ctx, contact)
	if err != nil {
		return err
	}
	var state domain.OnboardingState
	switch {
	case exists:
		state = domain.StateReturningUser
	case isAddingContact:
		state = domain.StateAddingContact
	default:
		state = domain.StateNewUser
	}
	n, err := s.nonces.Issue(ctx, contact, state)
	if err != nil {
		return err
	}
	if err := s.deliverer.Send(ctx, contact, n.Value, state); err != nil {
		// The nonce stays valid until expiry; the caller may retry delivery.
		slog.Warn("nonce delivery failed", "contact", contact, "state", state, "err", err)
		return err
	}
	return nil
}

func (s *service) NonceToRefreshToken(ctx context.Context, nonceValue string, profile *domain.NewUserProfile) (*domain.RefreshToken, error) {
	n, err := s.nonces.Validate(ctx, nonceValue)
	if err != nil {
		return nil, err
	}

	var userID string
	if n.State == domain.StateNewUser {
		if profile == nil {
			return nil, fmt.Errorf("new-user profile required: %w", domain.ErrProfileInvalid)
		}
		u, err := s.registry.CreateUser(ctx, *profile)
		if err != nil {
			return nil, err
		}
		if err := s.registry.BindContact(ctx, u.UserID, n.Contact); err != nil {
			// The user owns no contact yet; undo the creation so a lost
			// bind race leaves nothing behind.
			if delErr := s.registry.DeleteUser(ctx, u.UserID); delErr != nil {
				slog.Warn("could not delete user after failed contact bind", "user_id", u.UserID, "err", delErr)
			}
			return nil, err
		}
		userID = u.UserID
	} else {
		userID, err = s.registry.UserIDOfContact(ctx, n.Contact)
		if err != nil {
			return nil, err
		}
	}

	// Claim the nonce before minting: of two racing redemptions only the
	// one that deletes the nonce gets a token.
	if err := s.nonces.Consume(ctx, n.Contact, nonceValue); err != nil {
		return nil, err
	}
	return s.tokens.IssueRefreshToken(ctx, userID)
}

func (s *service) NonceToAddContact(ctx context.Context, nonceValue, userID string) error {
	n, err := s.nonces.Validate(ctx, nonceValue)
	if err != nil {
		return err
	}
	if err := s.registry.BindContact(ctx, userID, n.Contact); err != nil {
		return err
	}
	return s.nonces.Consume(ctx, n.Contact, nonceValue)
}

func (s *service) RemoveContact(ctx context.Context, userID, contact string) error {
	return s.registry.RemoveContact(ctx, userID, contact)
}

func (s *service) ListContacts(ctx context.Context, userID string) ([]domain.UserContact, error) {
	return s.registry.ListContacts(ctx, userID)
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.registry.GetUser(ctx, userID)
}

func (s *service) RefreshTokenToAccessToken(ctx context.Context, refreshToken string) (string, error) {
	return s.tokens.RedeemForAccessToken(ctx, refreshToken)
}

func (s *service) RevokeRefreshToken(ctx context.Context, userID string) error {
	return s.tokens.Revoke(ctx, userID)
}
