// Package delivery hands issued nonces to the out-of-band channel that
// matches the contact: SMTP for email addresses, SNS SMS for phone numbers.
// Delivery failure never rolls back nonce issuance — the nonce stays valid
// until expiry and a later retry may still redeem it.
package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/passwordless-api/internal/domain"
	"github.com/passwordless-api/internal/infrastructure/smtp"
	"github.com/passwordless-api/internal/infrastructure/sns"
)

// Sender delivers a nonce to a contact using the template matching the
// onboarding state the nonce was issued for.
type Sender interface {
	Send(ctx context.Context, contact, nonce string, tag domain.OnboardingState) error
}

type template struct {
	subject string
	body    string // fmt pattern with the nonce as sole argument
}

var templates = map[domain.OnboardingState]template{
	domain.StateNewUser: {
		subject: "Finish creating your account",
		body:    "Welcome! Your sign-up code is: %s",
	},
	domain.StateReturningUser: {
		subject: "Your sign-in code",
		body:    "Your sign-in code is: %s",
	},
	domain.StateAddingContact: {
		subject: "Confirm your new contact",
		body:    "Your confirmation code is: %s",
	},
}

type sender struct {
	mailer    smtp.Mailer
	smsSender sns.SMSSender
}

func NewSender(mailer smtp.Mailer, smsSender sns.SMSSender) Sender {
	return &sender{mailer: mailer, smsSender: smsSender}
}

func (s *sender) Send(ctx context.Context, contact, nonce string, tag domain.OnboardingState) error {
	tpl, ok := templates[tag]
	if !ok {
		return fmt.Errorf("no template for state %q", tag)
	}
	if isEmail(contact) {
		if err := s.mailer.SendEmail(contact, tpl.subject, fmt.Sprintf(tpl.body, nonce)); err != nil {
			return fmt.Errorf("send email: %w", domain.ErrDeliveryFailed)
		}
		return nil
	}
	if s.smsSender == nil {
		return fmt.Errorf("sms channel not configured: %w", domain.ErrDeliveryFailed)
	}
	if err := s.smsSender.SendSMS(ctx, contact, fmt.Sprintf(tpl.body, nonce)); err != nil {
		return fmt.Errorf("send sms: %w", domain.ErrDeliveryFailed)
	}
	return nil
}

func isEmail(contact string) bool {
	return strings.Contains(contact, "@")
}
