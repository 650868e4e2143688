package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudfleet/clientregistry/internal/registry/service"
	"github.com/cloudfleet/clientregistry/internal/registry/store"
	"github.com/cloudfleet/clientregistry/pkg/httpx"
	"github.com/cloudfleet/clientregistry/pkg/jwtx"
	"github.com/cloudfleet/clientregistry/pkg/slogx"

	_ "github.com/cloudfleet/clientregistry/api/registry" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	ClientService     *service.ClientService
	CredentialService *service.CredentialService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerCredentials()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CloudFleet Client Registry API
//	@version		0.1.0
//	@description	Administrative API for the fleet's OAuth2 client and credential registry.
//	@description
//	@description				Client secrets and user passwords are stored as one-way hashes and are never returned by any endpoint.
//
//	@contact.name				CloudFleet Platform Team
//	@contact.url				https://github.com/cloudfleet/clientregistry
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	read := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("registry:read"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}
	write := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("registry:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/clients", write(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/clients", read(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/clients/{id}", read(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PUT /v1/clients/{id}", write(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/clients/{id}", write(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerCredentials() {
	h := &CredentialsHandler{CredentialService: r.CredentialService}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("registry:write"),
		httpx.RateLimitBySubject(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("registry:read"),
		httpx.RateLimitBySubject(httpx.ModerateLimit),
	)
	securedStatus := httpx.Chain(http.HandlerFunc(h.HandleUpdateStatus),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("registry:write"),
		httpx.RateLimitBySubject(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/credentials", securedCreate)
	r.Mux.Handle("GET /v1/credentials/{subject}", securedGet)
	r.Mux.Handle("PUT /v1/credentials/{subject}/status", securedStatus)
}

func (r *Router) registerSystem() {
	// Health probes get lenient limits; monitoring polls frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
