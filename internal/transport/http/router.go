package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/passwordless-api/internal/application/auth"
	"github.com/passwordless-api/internal/application/nonce"
	"github.com/passwordless-api/internal/application/registry"
	"github.com/passwordless-api/internal/application/token"
	"github.com/passwordless-api/internal/config"
	"github.com/passwordless-api/internal/infrastructure/delivery"
	"github.com/passwordless-api/internal/transport/http/handler"
	appmiddleware "github.com/passwordless-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the public nonce endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	nonceSvc := nonce.NewService(deps.NonceRepo, cfg.NonceExpiry)
	registrySvc := registry.NewService(deps.UserRepo, deps.ContactRepo)
	// A nil provider must stay a nil interface, not a typed nil, so the
	// token service can detect the missing signer instead of panicking.
	tokenSvc := token.NewService(deps.RefreshTokenRepo, nil)
	if deps.JWTProvider != nil {
		tokenSvc = token.NewService(deps.RefreshTokenRepo, deps.JWTProvider)
	}
	deliverer := delivery.NewSender(deps.Mailer, deps.SMSSender)
	authSvc := auth.NewService(auth.ServiceDeps{
		Nonces:    nonceSvc,
		Registry:  registrySvc,
		Tokens:    tokenSvc,
		Deliverer: deliverer,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	contactH := handler.NewContactHandler(authSvc)
	userH := handler.NewUserHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/send-nonce", authH.SendNonce)
		r.With(sensitiveRL.Limit).Post("/auth/nonce-to-refresh-token", authH.NonceToRefreshToken)
		r.Post("/auth/refresh-token-to-access-token", authH.RefreshTokenToAccessToken)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/nonce-to-add-contact", authH.NonceToAddContact)
			r.Post("/auth/revoke-refresh-token", authH.RevokeRefreshToken)
			r.Get("/auth/validate-token", authH.ValidateToken)
			r.Get("/users/me", userH.Me)
			r.Get("/contacts", contactH.List)
			r.Delete("/contacts", contactH.Remove)
		})
	})

	return r
}
