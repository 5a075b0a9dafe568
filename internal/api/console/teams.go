package console

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/console-server/internal/relay"
)

// EndpointInviteTeamMember handles the 'POST /v1/projects/{projectID}/teams/invite' endpoint.
// The request body is forwarded to the backend service unchanged.
func (service *Service) EndpointInviteTeamMember(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	projectID := chi.URLParam(request, "projectID")

	body, err := io.ReadAll(request.Body)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		service.writer.WriteError(writer, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outbound := relay.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/projects/%s/teams/invite", projectID),
	}
	if len(body) > 0 {
		outbound.Body = json.RawMessage(body)
	}

	service.writeRelayResult(writer, service.gateway.Relay(request.Context(), ses, outbound))
}
