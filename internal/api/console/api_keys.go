package console

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/console-server/internal/relay"
)

// EndpointDeleteAPIKey handles the 'DELETE /v1/projects/{projectID}/api-keys/{keyID}' endpoint
func (service *Service) EndpointDeleteAPIKey(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	projectID := chi.URLParam(request, "projectID")
	keyID := chi.URLParam(request, "keyID")

	result := service.gateway.Relay(request.Context(), ses, relay.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/projects/%s/api-keys/%s", projectID, keyID),
	})
	service.writeRelayResult(writer, result)
}
