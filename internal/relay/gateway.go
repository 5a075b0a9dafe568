package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/opsdeck/console-server/internal/query"
	"github.com/opsdeck/console-server/internal/session"
	"github.com/opsdeck/console-server/internal/token"
	"github.com/rs/zerolog/log"
)

// Request represents a single project-scoped operation to forward to the backend service
type Request struct {
	// Method is the HTTP method of the outbound call (GET, POST, PUT or DELETE)
	Method string

	// Path is the resource path on the backend service, starting with a slash
	Path string

	// Body is the optional JSON request payload.
	// A json.RawMessage passes an inbound body through unchanged.
	Body any

	// Filters is the optional filter set composed into the outbound query string
	Filters *query.FilterSet
}

// Gateway forwards project-scoped operations to the backend orchestration service.
// Every invocation checks the session, mints a fresh service credential, performs
// exactly one outbound call and classifies the response. Only 2xx responses classify
// as success; redirects are surfaced as backend rejections like any other status.
// The gateway performs no retries and caches nothing across invocations.
type Gateway struct {
	baseURL string
	minter  *token.Minter
	client  *http.Client
}

// NewGateway creates a new backend gateway.
// The given timeout bounds every outbound call; inbound request cancellation is
// propagated through the context passed to Relay.
func NewGateway(baseURL string, minter *token.Minter, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		minter:  minter,
		client: &http.Client{
			Timeout: timeout,
			// Redirects are classified like any other non-2xx status instead of being followed
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Relay forwards the given request to the backend service on behalf of the given session.
// A nil session short-circuits to an unauthorized failure without contacting the backend.
func (gateway *Gateway) Relay(ctx context.Context, ses *session.Session, request Request) Result {
	if ses == nil {
		return reject(FailureUnauthorized, http.StatusUnauthorized, 0, "Unauthorized")
	}

	// Mint the service credential bound to the session
	credential, err := gateway.minter.Mint(ses)
	if err != nil {
		log.Error().Err(err).Str("path", request.Path).Msg("could not mint a service credential")
		return rejectInternal(FailureTokenMint)
	}

	// Build the outbound request
	url := gateway.baseURL + request.Path
	if request.Filters != nil && request.Filters.Len() > 0 {
		url += "?" + request.Filters.Encode()
	}
	var body io.Reader
	if request.Body != nil {
		payload, err := json.Marshal(request.Body)
		if err != nil {
			log.Error().Err(err).Str("path", request.Path).Msg("could not encode the outbound request payload")
			return rejectInternal(FailureTransport)
		}
		body = bytes.NewReader(payload)
	}
	outbound, err := http.NewRequestWithContext(ctx, request.Method, url, body)
	if err != nil {
		log.Error().Err(err).Str("path", request.Path).Msg("could not create the outbound request")
		return rejectInternal(FailureTransport)
	}
	outbound.Header.Set("Authorization", "Bearer "+credential)
	if request.Body != nil {
		outbound.Header.Set("Content-Type", "application/json")
	}

	// Perform the outbound call and classify its response
	response, err := gateway.client.Do(outbound)
	if err != nil {
		log.Error().Err(err).Str("path", request.Path).Msg("could not reach the backend service")
		return rejectInternal(FailureTransport)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		log.Error().Err(err).Str("path", request.Path).Msg("could not read the backend response")
		return rejectInternal(FailureTransport)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return reject(FailureBackendRejected, response.StatusCode, response.StatusCode, string(payload))
	}
	if len(payload) == 0 {
		return succeed(nil)
	}
	return succeed(payload)
}
