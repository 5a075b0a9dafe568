package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/opsdeck/console-server/internal/api/schema"
	"github.com/opsdeck/console-server/internal/config"
	"github.com/opsdeck/console-server/internal/function"
	"github.com/opsdeck/console-server/internal/logs"
	"github.com/opsdeck/console-server/internal/relay"
	"github.com/opsdeck/console-server/internal/session"
	"github.com/opsdeck/console-server/internal/token"
	"github.com/rs/zerolog/log"
)

// Service represents the console API service
type Service struct {
	server *http.Server

	Config *config.Config

	Sessions session.Storage

	gateway *relay.Gateway
	logs    *logs.Service

	writer *schema.Writer
}

// Startup starts up the console API
func (service *Service) Startup() error {
	service.setup()

	server := &http.Server{
		Addr:    service.Config.ConsoleAPIListenAddress,
		Handler: service.routes(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the console API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

// setup creates the HTTP schema writer, the backend gateway and the log query service
func (service *Service) setup() {
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the console API experienced an unexpected error")
		},
	}

	minter := token.NewMinter(service.Config.TokenSigningSecret, service.Config.TokenTTL, service.Config.TokenIssuer)
	service.gateway = relay.NewGateway(service.Config.BackendBaseURL, minter, service.Config.BackendTimeout)
	service.logs = logs.NewService(service.gateway)
}

// routes creates the HTTP router and registers all endpoint handlers
func (service *Service) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.ConsoleAPIAllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteError(writer, http.StatusNotFound, schema.MessageNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteError(writer, http.StatusMethodNotAllowed, schema.MessageMethodNotAllowed)
	})

	// Register the session endpoints
	router.Post("/v1/auth/dev_session", service.EndpointCreateDevSession)
	router.Delete("/v1/auth/session", function.Nest[http.HandlerFunc](
		service.EndpointTerminateSession,
		service.MiddlewareVerifySession,
	))

	// Register the relay endpoints
	router.Delete("/v1/projects/{projectID}/api-keys/{keyID}", function.Nest[http.HandlerFunc](
		service.EndpointDeleteAPIKey,
		service.MiddlewareVerifySession,
	))
	router.Post("/v1/projects/{projectID}/teams/invite", function.Nest[http.HandlerFunc](
		service.EndpointInviteTeamMember,
		service.MiddlewareVerifySession,
	))

	// Register the log query endpoints
	router.Get("/v1/tool-call-logs", function.Nest[http.HandlerFunc](
		service.EndpointGetLogs,
		service.MiddlewareVerifySession,
	))
	router.Get("/v1/tool-call-logs/metrics", function.Nest[http.HandlerFunc](
		service.EndpointGetLogMetrics,
		service.MiddlewareVerifySession,
	))
	router.Get("/v1/tool-call-logs/recent", function.Nest[http.HandlerFunc](
		service.EndpointGetRecentLogs,
		service.MiddlewareVerifySession,
	))
	router.Get("/v1/tool-call-logs/{logID}", function.Nest[http.HandlerFunc](
		service.EndpointGetLog,
		service.MiddlewareVerifySession,
	))

	// Register the health endpoint
	router.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteJSON(writer, map[string]any{"status": "ok"})
	})

	return router
}

// writeRelayResult writes the normalized result of a relay invocation.
// A successful invocation with an empty payload is reported as '{"success": true}'.
func (service *Service) writeRelayResult(writer http.ResponseWriter, result relay.Result) {
	if !result.OK() {
		service.writer.WriteError(writer, result.Failure.Status, result.Failure.Message)
		return
	}
	if len(result.Payload) == 0 {
		service.writer.WriteJSON(writer, map[string]any{"success": true})
		return
	}
	service.writer.WriteJSON(writer, result.Payload)
}
