package delivery

import (
	"context"
	"testing"

	"github.com/passwordless-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestSend_EmailContactUsesMailer(t *testing.T) {
	mailer, sms := new(mockMailer), new(mockSMS)
	mailer.On("SendEmail", "a@x.com", "Finish creating your account", "Welcome! Your sign-up code is: nonce-1").Return(nil)

	s := NewSender(mailer, sms)
	require.NoError(t, s.Send(context.Background(), "a@x.com", "nonce-1", domain.StateNewUser))
	mailer.AssertExpectations(t)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_PhoneContactUsesSMS(t *testing.T) {
	mailer, sms := new(mockMailer), new(mockSMS)
	sms.On("SendSMS", mock.Anything, "+15551234567", "Your sign-in code is: nonce-1").Return(nil)

	s := NewSender(mailer, sms)
	require.NoError(t, s.Send(context.Background(), "+15551234567", "nonce-1", domain.StateReturningUser))
	sms.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_MailerFailureIsDeliveryFailed(t *testing.T) {
	mailer, sms := new(mockMailer), new(mockSMS)
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	s := NewSender(mailer, sms)
	err := s.Send(context.Background(), "a@x.com", "nonce-1", domain.StateAddingContact)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestSend_MissingSMSChannel(t *testing.T) {
	s := NewSender(new(mockMailer), nil)
	err := s.Send(context.Background(), "+15551234567", "nonce-1", domain.StateReturningUser)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestSend_UnknownTemplate(t *testing.T) {
	s := NewSender(new(mockMailer), new(mockSMS))
	err := s.Send(context.Background(), "a@x.com", "nonce-1", domain.OnboardingState("Bogus"))
	assert.Error(t, err)
}
