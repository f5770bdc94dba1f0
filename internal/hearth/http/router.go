package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/service"
	"github.com/hearthhq/hearth/internal/hearth/store"
	"github.com/hearthhq/hearth/pkg/httpx"
	"github.com/hearthhq/hearth/pkg/jwtx"
	"github.com/hearthhq/hearth/pkg/slogx"

	_ "github.com/hearthhq/hearth/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      *jwtx.Verifier
	buildVersion  string
	webhookSecret string
	startTime     time.Time
	logger        *slog.Logger

	store               store.Store
	Guard               *service.Guard
	SessionService      *service.SessionService
	UserService         *service.UserService
	NotificationService *service.NotificationService
	PaymentService      *service.PaymentService
	WebhookService      *service.WebhookService
	AuditService        *service.AuditService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion, webhookSecret string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		webhookSecret: webhookSecret,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		Guard:         &service.Guard{},
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerNotifications()
	r.registerPayments()
	r.registerWebhooks()
	r.registerAuditLogs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Hearth Platform API
//	@version		0.1.0
//	@description	Session, user, notification and payment API for the Hearth family platform.
//	@description
//	@description	Sessions are stateless JWTs signed with Ed25519 and carry a snapshot of the
//	@description	user's role at issuance time.
//
//	@contact.name				Hearth Team
//	@contact.url				https://github.com/hearthhq/hearth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (account creation)
	registerHandler := &RegisterHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - authenticated, moderate limit
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /csrf - lenient limit, no session required
	r.Mux.Handle("GET /v1/auth/csrf",
		httpx.Chain(CSRFHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	listHandler := &UsersHandler{UserService: r.UserService, Guard: r.Guard}
	detailHandler := &UserDetailHandler{UserService: r.UserService, Guard: r.Guard}

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(listHandler.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(detailHandler.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(detailHandler.HandlePatch),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(detailHandler.HandleDelete),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService, Guard: r.Guard}

	r.Mux.Handle("GET /v1/notifications",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/notifications",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/notifications/{id}/read",
		httpx.Chain(http.HandlerFunc(h.HandleMarkRead),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPayments() {
	h := &PaymentsHandler{PaymentService: r.PaymentService, UserService: r.UserService}

	// Strict limits: every call hits the payment processor.
	r.Mux.Handle("POST /v1/payments/intents",
		httpx.Chain(http.HandlerFunc(h.HandleCreateIntent),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/payments/subscriptions",
		httpx.Chain(http.HandlerFunc(h.HandleCreateSubscription),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerWebhooks() {
	// Authenticated by signature, not session; generous limit because the
	// processor batches deliveries.
	h := &StripeWebhookHandler{WebhookService: r.WebhookService, Secret: r.webhookSecret}
	r.Mux.Handle("POST /v1/webhooks/stripe",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAuditLogs() {
	h := &AuditLogsHandler{AuditService: r.AuditService, Guard: r.Guard}
	r.Mux.Handle("GET /v1/audit-logs",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
