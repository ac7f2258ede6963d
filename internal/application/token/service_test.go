package token

import (
	"context"
	"testing"

	"github.com/passwordless-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Put(ctx context.Context, t *domain.RefreshToken) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTokenStore) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if t, _ := args.Get(0).(*domain.RefreshToken); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// --- tests ---

func TestIssueRefreshToken(t *testing.T) {
	store := new(mockTokenStore)
	var stored *domain.RefreshToken
	store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.RefreshToken)
	}).Return(nil)

	svc := NewService(store, new(mockSigner))
	rt, err := svc.IssueRefreshToken(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", rt.UserID)
	assert.Len(t, rt.Token, refreshTokenBytes*2) // hex-encoded
	assert.False(t, rt.Revoked)
	assert.Same(t, stored, rt)
}

func TestRedeemForAccessToken_Unknown(t *testing.T) {
	store := new(mockTokenStore)
	store.On("GetByToken", mock.Anything, "nope").Return(nil, domain.ErrRefreshTokenInvalid)

	svc := NewService(store, new(mockSigner))
	_, err := svc.RedeemForAccessToken(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenInvalid)
}

func TestRedeemForAccessToken_Revoked(t *testing.T) {
	store := new(mockTokenStore)
	store.On("GetByToken", mock.Anything, "rt1").Return(&domain.RefreshToken{
		Token: "rt1", UserID: "u1", Revoked: true,
	}, nil)
	signer := new(mockSigner)

	svc := NewService(store, signer)
	_, err := svc.RedeemForAccessToken(context.Background(), "rt1")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked)
	signer.AssertNotCalled(t, "Sign", mock.Anything)
}

func TestRedeemForAccessToken_SignsBoundUser(t *testing.T) {
	store := new(mockTokenStore)
	store.On("GetByToken", mock.Anything, "rt1").Return(&domain.RefreshToken{
		Token: "rt1", UserID: "u1",
	}, nil)
	signer := new(mockSigner)
	signer.On("Sign", "u1").Return("signed-access-token", nil)

	svc := NewService(store, signer)
	at, err := svc.RedeemForAccessToken(context.Background(), "rt1")
	require.NoError(t, err)
	assert.Equal(t, "signed-access-token", at)
	signer.AssertExpectations(t)
}

func TestRedeemForAccessToken_NoSignerConfigured(t *testing.T) {
	store := new(mockTokenStore)
	store.On("GetByToken", mock.Anything, "rt1").Return(&domain.RefreshToken{
		Token: "rt1", UserID: "u1",
	}, nil)

	// nil signer must produce an error, never a panic
	svc := NewService(store, nil)
	_, err := svc.RedeemForAccessToken(context.Background(), "rt1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing unavailable")
}

func TestValidateRefreshToken_MirrorsRedeemFailures(t *testing.T) {
	store := new(mockTokenStore)
	store.On("GetByToken", mock.Anything, "live").Return(&domain.RefreshToken{Token: "live", UserID: "u1"}, nil)
	store.On("GetByToken", mock.Anything, "dead").Return(&domain.RefreshToken{Token: "dead", UserID: "u1", Revoked: true}, nil)

	svc := NewService(store, new(mockSigner))
	assert.NoError(t, svc.ValidateRefreshToken(context.Background(), "live"))
	assert.ErrorIs(t, svc.ValidateRefreshToken(context.Background(), "dead"), domain.ErrRefreshTokenRevoked)
}

func TestRevoke_UserScoped(t *testing.T) {
	store := new(mockTokenStore)
	store.On("RevokeAllForUser", mock.Anything, "u1").Return(nil)

	svc := NewService(store, new(mockSigner))
	require.NoError(t, svc.Revoke(context.Background(), "u1"))
	store.AssertExpectations(t)
}
