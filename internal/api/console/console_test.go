package console

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opsdeck/console-server/internal/config"
	"github.com/opsdeck/console-server/internal/session/storage/inmem"
)

// backendCall holds a single request the fake backend service received
type backendCall struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Header http.Header
}

// newBackend spins up a fake backend orchestration service answering every request
// with the given status and body
func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]backendCall) {
	t.Helper()
	calls := &[]backendCall{}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		payload, _ := io.ReadAll(request.Body)
		*calls = append(*calls, backendCall{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.RawQuery,
			Body:   payload,
			Header: request.Header.Clone(),
		})
		writer.WriteHeader(status)
		if body != "" {
			writer.Write([]byte(body))
		}
	}))
	t.Cleanup(server.Close)
	return server, calls
}

// newTestService builds a console service wired to the given backend with an
// in-memory session store
func newTestService(t *testing.T, backendURL string) (*Service, *inmem.Driver) {
	t.Helper()
	driver, err := inmem.New()
	if err != nil {
		t.Fatalf("failed to create the session storage: %v", err)
	}

	service := &Service{
		Config: &config.Config{
			Environment:             "dev",
			ConsoleAPIAllowedOrigin: "http://localhost:3000",
			ConsoleAPIBaseAddress:   "http://localhost:8080",
			BackendBaseURL:          backendURL,
			BackendTimeout:          5 * time.Second,
			TokenSigningSecret:      "test-secret",
			TokenTTL:                time.Minute,
			TokenIssuer:             "console-server",
			SessionLifetime:         time.Hour,
		},
		Sessions: driver,
	}
	service.setup()
	return service, driver
}

// login creates a session for 'user-1' and returns its cookie
func login(t *testing.T, driver *inmem.Driver) *http.Cookie {
	t.Helper()
	raw, err := driver.Create(context.Background(), "user-1", nil, time.Now().Add(time.Hour).Unix())
	if err != nil {
		t.Fatalf("failed to create a session: %v", err)
	}
	return &http.Cookie{Name: sessionTokenCookieName, Value: raw}
}

// serve runs a request against the console router and returns the response recorder
func serve(service *Service, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	service.routes().ServeHTTP(recorder, request)
	return recorder
}
