package http

import (
	"github.com/passwordless-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/passwordless-api/internal/infrastructure/jwt"
	"github.com/passwordless-api/internal/infrastructure/smtp"
	"github.com/passwordless-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NonceRepo        *dynamo.NonceRepo
	UserRepo         *dynamo.UserRepo
	ContactRepo      *dynamo.ContactRepo
	RefreshTokenRepo *dynamo.RefreshTokenRepo
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}
