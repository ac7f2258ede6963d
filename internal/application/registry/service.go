// Package registry owns user identities and their contact bindings.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/passwordless-api/internal/domain"
	"github.com/passwordless-api/internal/pkg/id"
	"github.com/passwordless-api/internal/pkg/validate"
)

type Service interface {
	// ContactExists is an advisory existence check used to pick the
	// onboarding branch. The authoritative uniqueness guard is the
	// conditional write inside BindContact.
	ContactExists(ctx context.Context, contact string) (bool, error)
	// CreateUser validates the profile and stores a user under a fresh,
	// system-generated id. Reserved names such as "admin" are never assigned.
	CreateUser(ctx context.Context, profile domain.NewUserProfile) (*domain.User, error)
	// BindContact associates contact with userID. Rebinding a contact the
	// user already owns is a no-op; a contact owned by someone else fails
	// with ErrContactAlreadyBound.
	BindContact(ctx context.Context, userID, contact string) error
	// DeleteUser removes a user record. It compensates a creation whose
	// first contact binding failed, so no user is left without contacts.
	DeleteUser(ctx context.Context, userID string) error
	UserIDOfContact(ctx context.Context, contact string) (string, error)
	// RemoveContact unbinds contact from userID unless it is the user's
	// last one. Authorization is the boundary's job; this only guards the
	// at-least-one-contact invariant.
	RemoveContact(ctx context.Context, userID, contact string) error
	ListContacts(ctx context.Context, userID string) ([]domain.UserContact, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type contactStore interface {
	Bind(ctx context.Context, uc *domain.UserContact) error
	Get(ctx context.Context, contact string) (*domain.UserContact, error)
	ListByUser(ctx context.Context, userID string) ([]domain.UserContact, error)
	UnbindWithWitness(ctx context.Context, userID, contact, witness string) error
}

type service struct {
	users    userStore
	contacts contactStore
}

func NewService(users userStore, contacts contactStore) Service {
	return &service{users: users, contacts: contacts}
}

func (s *service) ContactExists(ctx context.Context, contact string) (bool, error) {
	_, err := s.contacts.Get(ctx, contact)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrContactNotFound) {
		return false, nil
	}
	return false, err
}

func (s *service) CreateUser(ctx context.Context, profile domain.NewUserProfile) (*domain.User, error) {
	if err := validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrProfileInvalid)
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:    newUserID(),
		Name:      profile.Name,
		Locale:    profile.Locale,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) BindContact(ctx context.Context, userID, contact string) error {
	uc := &domain.UserContact{
		Contact:   contact,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := s.contacts.Bind(ctx, uc)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrContactAlreadyBound) {
		existing, getErr := s.contacts.Get(ctx, contact)
		if getErr == nil && existing.UserID == userID {
			return nil // already ours
		}
		return err
	}
	return err
}

func (s *service) UserIDOfContact(ctx context.Context, contact string) (string, error) {
	uc, err := s.contacts.Get(ctx, contact)
	if err != nil {
		return "", err
	}
	return uc.UserID, nil
}

func (s *service) DeleteUser(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}

func (s *service) RemoveContact(ctx context.Context, userID, contact string) error {
	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	// Another contact of the same user serves as the transactional witness:
	// the unbind commits only while the witness is still bound, so two
	// concurrent removals can never drop the user to zero contacts.
	var witness string
	for _, uc := range contacts {
		if uc.Contact != contact {
			witness = uc.Contact
			break
		}
	}
	if witness == "" {
		return fmt.Errorf("user %s: %w", userID, domain.ErrLastContactForbidden)
	}
	return s.contacts.UnbindWithWitness(ctx, userID, contact, witness)
}

func (s *service) ListContacts(ctx context.Context, userID string) ([]domain.UserContact, error) {
	return s.contacts.ListByUser(ctx, userID)
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

// newUserID generates ids until one clears the reserved-name list. ULIDs
// never collide with names like "admin" in practice, but the invariant is
// the registry's to enforce, not the generator's.
func newUserID() string {
	for {
		uid := id.New()
		if !domain.IsReservedUserID(uid) {
			return uid
		}
	}
}
