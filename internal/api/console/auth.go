package console

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/opsdeck/console-server/internal/api/schema"
)

type endpointCreateDevSessionRequestPayload struct {
	UserID string            `json:"user_id"`
	Claims map[string]string `json:"claims"`
}

// EndpointCreateDevSession handles the 'POST /v1/auth/dev_session' endpoint.
// It creates a session without going through the login service and is therefore
// only available outside of production.
func (service *Service) EndpointCreateDevSession(writer http.ResponseWriter, request *http.Request) {
	if service.Config.IsEnvProduction() {
		service.writer.WriteError(writer, http.StatusNotFound, schema.MessageNotFound)
		return
	}

	payload, err := schema.UnmarshalBody[endpointCreateDevSessionRequestPayload](request)
	if err != nil {
		service.writer.WriteError(writer, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID := payload.UserID
	if userID == "" {
		userID = "dev-" + uuid.NewString()
	}

	expires := time.Now().Add(service.Config.SessionLifetime)
	rawToken, err := service.Sessions.Create(request.Context(), userID, payload.Claims, expires.Unix())
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     sessionTokenCookieName,
		Value:    rawToken,
		Expires:  expires,
		Secure:   service.Config.IsConsoleAPISecure(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	service.writer.WriteJSON(writer, map[string]any{
		"user_id": userID,
	})
}

// EndpointTerminateSession handles the 'DELETE /v1/auth/session' endpoint
func (service *Service) EndpointTerminateSession(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)

	unsetCookie(writer, sessionTokenCookieName)
	if err := service.Sessions.TerminateBySessionID(request.Context(), ses.ID); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}
