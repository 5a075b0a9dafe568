package logs

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/opsdeck/console-server/internal/query"
	"github.com/opsdeck/console-server/internal/relay"
	"github.com/opsdeck/console-server/internal/session"
)

// fakeRelayer records the requests it receives and answers with a fixed result
type fakeRelayer struct {
	requests []relay.Request
	result   relay.Result
}

func (fake *fakeRelayer) Relay(_ context.Context, _ *session.Session, request relay.Request) relay.Result {
	fake.requests = append(fake.requests, request)
	return fake.result
}

func testSession() *session.Session {
	return &session.Session{
		ID:      "session-1",
		UserID:  "user-1",
		Expires: time.Now().Add(time.Hour).Unix(),
	}
}

func TestServiceList(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"logs":[],"pagination":{}}`)}}
	service := NewService(fake)

	filters := query.NewFilterSet()
	filters.Set("project_id", "p1")
	filters.SetValues("server_id", []string{"s1", "s2"})

	result := service.List(context.Background(), testSession(), filters)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	request := fake.requests[0]
	if request.Method != http.MethodGet || request.Path != "/tool-call-logs" {
		t.Errorf("unexpected request: %s %s", request.Method, request.Path)
	}
	if got := request.Filters.Encode(); got != "project_id=p1&server_id=s1&server_id=s2" {
		t.Errorf("expected filters to be forwarded unchanged, got %q", got)
	}
}

func TestServiceMetrics(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"total":3}`)}}
	service := NewService(fake)

	filters := query.NewFilterSet()
	filters.Set("project_id", "p1")

	result := service.Metrics(context.Background(), testSession(), filters)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}
	if got := fake.requests[0].Path; got != "/tool-call-logs/metrics" {
		t.Errorf("unexpected request path: %q", got)
	}
	if string(result.Payload) != `{"total":3}` {
		t.Errorf("expected the metrics payload to pass through, got %s", result.Payload)
	}
}

func TestServiceDetail(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"id":"log-1"}`)}}
	service := NewService(fake)

	result := service.Detail(context.Background(), testSession(), "log-1", "p1")
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	request := fake.requests[0]
	if request.Path != "/tool-call-logs/log-1" {
		t.Errorf("unexpected request path: %q", request.Path)
	}
	if got := request.Filters.Encode(); got != "project_id=p1" {
		t.Errorf("unexpected filters: %q", got)
	}
}

func TestServiceDetailNotFound(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Failure: &relay.Failure{
		Kind:         relay.FailureBackendRejected,
		Status:       http.StatusNotFound,
		SourceStatus: http.StatusNotFound,
		Message:      "log not found",
	}}}
	service := NewService(fake)

	result := service.Detail(context.Background(), testSession(), "missing", "p1")
	if result.OK() {
		t.Fatal("expected the not-found failure to pass through")
	}
	if result.Failure.SourceStatus != http.StatusNotFound {
		t.Errorf("unexpected source status: %d", result.Failure.SourceStatus)
	}
}

func TestServiceRecentWithSince(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"logs":[{"id":"log-1"}]}`)}}
	service := NewService(fake)

	filters := query.NewFilterSet()
	filters.Set("since", "2024-01-01T00:00:00Z")
	filters.Set("time_range", "15m")

	result := service.Recent(context.Background(), testSession(), filters)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	sent := fake.requests[0].Filters
	if !sent.Has("start_time") || sent.Get("start_time") != "2024-01-01T00:00:00Z" {
		t.Errorf("expected 'since' to be forwarded as 'start_time', got %q", sent.Encode())
	}
	if sent.Has("time_range") {
		t.Errorf("expected 'time_range' to be removed, got %q", sent.Encode())
	}
	if sent.Has("since") {
		t.Errorf("expected 'since' itself not to be forwarded, got %q", sent.Encode())
	}
}

func TestServiceRecentDefaults(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"logs":[]}`)}}
	service := NewService(fake)

	filters := query.NewFilterSet()
	filters.Set("project_id", "p1")

	result := service.Recent(context.Background(), testSession(), filters)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	if got := fake.requests[0].Filters.Encode(); got != "project_id=p1&time_range=15m&page_size=20" {
		t.Errorf("unexpected default filters: %q", got)
	}
	// The caller's filter set stays untouched
	if got := filters.Encode(); got != "project_id=p1" {
		t.Errorf("expected the supplied filter set to stay unmodified, got %q", got)
	}
}

func TestServiceRecentKeepsExplicitPageSize(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"logs":[]}`)}}
	service := NewService(fake)

	filters := query.NewFilterSet()
	filters.SetInt("page_size", 5)

	if result := service.Recent(context.Background(), testSession(), filters); !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}
	sent := fake.requests[0].Filters
	if got := sent.Get("page_size"); got != "5" {
		t.Errorf("expected the explicit page size to be kept, got %q", got)
	}
}

func TestServiceRecentUnwrapsPage(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"logs":[{"id":"log-1"},{"id":"log-2"}],"pagination":{"total_count":7}}`)}}
	service := NewService(fake)

	result := service.Recent(context.Background(), testSession(), nil)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}
	if string(result.Payload) != `[{"id":"log-1"},{"id":"log-2"}]` {
		t.Errorf("expected the entry sequence without pagination metadata, got %s", result.Payload)
	}
}

func TestServiceRecentEmptyPage(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`{"pagination":{"total_count":0}}`)}}
	service := NewService(fake)

	result := service.Recent(context.Background(), testSession(), nil)
	if !result.OK() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}
	if string(result.Payload) != "[]" {
		t.Errorf("expected an empty sequence, got %s", result.Payload)
	}
}

func TestServiceRecentFailurePassesThrough(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Failure: &relay.Failure{
		Kind:         relay.FailureBackendRejected,
		Status:       http.StatusBadGateway,
		SourceStatus: http.StatusBadGateway,
		Message:      "upstream error",
	}}}
	service := NewService(fake)

	result := service.Recent(context.Background(), testSession(), nil)
	if result.OK() {
		t.Fatal("expected the failure to pass through")
	}
	if result.Failure.Message != "upstream error" {
		t.Errorf("unexpected failure message: %q", result.Failure.Message)
	}
}

func TestServiceRecentMalformedPage(t *testing.T) {
	fake := &fakeRelayer{result: relay.Result{Payload: json.RawMessage(`not json`)}}
	service := NewService(fake)

	result := service.Recent(context.Background(), testSession(), nil)
	if result.OK() {
		t.Fatal("expected a failure for a malformed page")
	}
	if result.Failure.Status != http.StatusInternalServerError {
		t.Errorf("unexpected failure status: %d", result.Failure.Status)
	}
	if result.Failure.Message != "internal error" {
		t.Errorf("expected the fixed internal error message, got %q", result.Failure.Message)
	}
}
