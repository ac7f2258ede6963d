package nonce

import (
	"context"
	"testing"
	"time"

	"github.com/passwordless-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNonceStore struct{ mock.Mock }

func (m *mockNonceStore) Put(ctx context.Context, n *domain.Nonce) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNonceStore) GetByValue(ctx context.Context, value string) (*domain.Nonce, error) {
	args := m.Called(ctx, value)
	if n, _ := args.Get(0).(*domain.Nonce); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNonceStore) Delete(ctx context.Context, contact string) error {
	return m.Called(ctx, contact).Error(0)
}
func (m *mockNonceStore) ConsumeByValue(ctx context.Context, contact, value string) error {
	return m.Called(ctx, contact, value).Error(0)
}

// --- tests ---

func TestIssue_MintsRandomValueWithExpiry(t *testing.T) {
	store := new(mockNonceStore)
	var stored *domain.Nonce
	store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Nonce)
	}).Return(nil)

	svc := NewService(store, 15*time.Minute)
	n, err := svc.Issue(context.Background(), "a@x.com", domain.StateNewUser)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", n.Contact)
	assert.Equal(t, domain.StateNewUser, n.State)
	assert.Len(t, n.Value, nonceValueBytes*2) // hex-encoded
	assert.Greater(t, n.ExpiresAt, time.Now().Unix())
	assert.Same(t, stored, n)
	store.AssertExpectations(t)
}

func TestIssue_DistinctValues(t *testing.T) {
	store := new(mockNonceStore)
	store.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, time.Minute)
	n1, err := svc.Issue(context.Background(), "a@x.com", domain.StateNewUser)
	require.NoError(t, err)
	n2, err := svc.Issue(context.Background(), "a@x.com", domain.StateNewUser)
	require.NoError(t, err)
	assert.NotEqual(t, n1.Value, n2.Value)
}

func TestValidate_NotFound(t *testing.T) {
	store := new(mockNonceStore)
	store.On("GetByValue", mock.Anything, "nope").Return(nil, domain.ErrNonceNotFound)

	svc := NewService(store, time.Minute)
	_, err := svc.Validate(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNonceNotFound)
}

func TestValidate_Expired(t *testing.T) {
	store := new(mockNonceStore)
	store.On("GetByValue", mock.Anything, "old").Return(&domain.Nonce{
		Contact:   "a@x.com",
		Value:     "old",
		State:     domain.StateReturningUser,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}, nil)

	svc := NewService(store, time.Minute)
	_, err := svc.Validate(context.Background(), "old")
	assert.ErrorIs(t, err, domain.ErrNonceExpired)
}

func TestValidate_DoesNotMutate(t *testing.T) {
	store := new(mockNonceStore)
	store.On("GetByValue", mock.Anything, "v1").Return(&domain.Nonce{
		Contact:   "a@x.com",
		Value:     "v1",
		State:     domain.StateNewUser,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	}, nil)

	svc := NewService(store, time.Minute)
	n, err := svc.Validate(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", n.Contact)

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ConsumeByValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestContactOfAndStateOf(t *testing.T) {
	store := new(mockNonceStore)
	store.On("GetByValue", mock.Anything, "v1").Return(&domain.Nonce{
		Contact:   "a@x.com",
		Value:     "v1",
		State:     domain.StateAddingContact,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	}, nil)

	svc := NewService(store, time.Minute)

	contact, err := svc.ContactOf(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", contact)

	state, err := svc.StateOf(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAddingContact, state)
}

func TestConsume_PropagatesLostRace(t *testing.T) {
	store := new(mockNonceStore)
	store.On("ConsumeByValue", mock.Anything, "a@x.com", "v1").Return(domain.ErrNonceNotFound)

	svc := NewService(store, time.Minute)
	err := svc.Consume(context.Background(), "a@x.com", "v1")
	assert.ErrorIs(t, err, domain.ErrNonceNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	store := new(mockNonceStore)
	store.On("Delete", mock.Anything, "a@x.com").Return(nil).Twice()

	svc := NewService(store, time.Minute)
	require.NoError(t, svc.Delete(context.Background(), "a@x.com"))
	require.NoError(t, svc.Delete(context.Background(), "a@x.com"))
	store.AssertExpectations(t)
}
