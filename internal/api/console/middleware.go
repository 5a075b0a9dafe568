package console

import (
	"context"
	"net/http"
	"time"

	"github.com/opsdeck/console-server/internal/api/schema"
	"github.com/opsdeck/console-server/internal/session"
)

var sessionTokenCookieName = "session_token"

var contextValueSession = "session"

// MiddlewareVerifySession makes sure that the requesting client has a valid session.
// Additionally, it injects the session object itself into the request context.
// Requests without a valid session never reach credential minting or the backend.
func (service *Service) MiddlewareVerifySession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		// Try to read the session token cookie
		cookie, err := request.Cookie(sessionTokenCookieName)
		if err != nil || cookie.Value == "" {
			service.writer.WriteError(writer, http.StatusUnauthorized, schema.MessageUnauthorized)
			return
		}

		// Try to resolve the session out of the session store
		ses, err := service.Sessions.GetByRawToken(request.Context(), cookie.Value)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		if ses == nil || ses.Expired(time.Now()) {
			service.writer.WriteError(writer, http.StatusUnauthorized, schema.MessageUnauthorized)
			return
		}

		// Delegate to the next handler
		request = request.WithContext(context.WithValue(request.Context(), contextValueSession, ses))
		next(writer, request)
	}
}

func unsetCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Second),
		HttpOnly: true,
	})
}

func requestSession(request *http.Request) *session.Session {
	return request.Context().Value(contextValueSession).(*session.Session)
}
