package logs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/opsdeck/console-server/internal/query"
	"github.com/opsdeck/console-server/internal/relay"
	"github.com/opsdeck/console-server/internal/session"
	"github.com/rs/zerolog/log"
)

const (
	logsPath    = "/tool-call-logs"
	metricsPath = "/tool-call-logs/metrics"

	defaultTimeRange = "15m"
	defaultPageSize  = 20
)

// Relayer is the backend gateway capability the log query service needs
type Relayer interface {
	// Relay forwards a project-scoped operation to the backend service
	Relay(ctx context.Context, ses *session.Session, request relay.Request) relay.Result
}

// Service retrieves tool call logs and metrics through the backend gateway.
// Log entries, metrics and pages are backend-shaped JSON and pass through unmodified;
// only Recent unwraps the page envelope.
type Service struct {
	relayer Relayer
}

// NewService creates a new log query service on top of the given relayer
func NewService(relayer Relayer) *Service {
	return &Service{
		relayer: relayer,
	}
}

// List retrieves a page of log entries, forwarding all supplied filters unchanged
func (service *Service) List(ctx context.Context, ses *session.Session, filters *query.FilterSet) relay.Result {
	return service.relayer.Relay(ctx, ses, relay.Request{
		Method:  http.MethodGet,
		Path:    logsPath,
		Filters: filters,
	})
}

// Metrics retrieves aggregate log statistics, forwarding all supplied filters unchanged
func (service *Service) Metrics(ctx context.Context, ses *session.Session, filters *query.FilterSet) relay.Result {
	return service.relayer.Relay(ctx, ses, relay.Request{
		Method:  http.MethodGet,
		Path:    metricsPath,
		Filters: filters,
	})
}

// Detail retrieves a single log entry by its ID
func (service *Service) Detail(ctx context.Context, ses *session.Session, logID, projectID string) relay.Result {
	filters := query.NewFilterSet()
	filters.Set("project_id", projectID)

	return service.relayer.Relay(ctx, ses, relay.Request{
		Method:  http.MethodGet,
		Path:    logsPath + "/" + url.PathEscape(logID),
		Filters: filters,
	})
}

// Recent retrieves the most recent log entries, unwrapped from their page envelope.
// A supplied 'since' bound is forwarded as 'start_time' and replaces any relative
// 'time_range' bound as the two are mutually exclusive; without either bound the
// query defaults to the last 15 minutes. A default page size is applied when the
// caller specifies no limit.
func (service *Service) Recent(ctx context.Context, ses *session.Session, filters *query.FilterSet) relay.Result {
	if filters == nil {
		filters = query.NewFilterSet()
	} else {
		filters = filters.Clone()
	}

	if since := filters.Get("since"); since != "" {
		filters.Unset("since")
		filters.Unset("time_range")
		filters.Set("start_time", since)
	} else if !filters.Has("time_range") {
		filters.Set("time_range", defaultTimeRange)
	}
	if !filters.Has("page_size") {
		filters.SetInt("page_size", defaultPageSize)
	}

	result := service.relayer.Relay(ctx, ses, relay.Request{
		Method:  http.MethodGet,
		Path:    logsPath,
		Filters: filters,
	})
	if !result.OK() {
		return result
	}

	var page struct {
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(result.Payload, &page); err != nil {
		log.Error().Err(err).Msg("the backend returned a malformed log page")
		return relay.Result{Failure: &relay.Failure{
			Kind:    relay.FailureTransport,
			Status:  http.StatusInternalServerError,
			Message: "internal error",
		}}
	}
	if page.Logs == nil {
		return relay.Result{Payload: json.RawMessage("[]")}
	}
	return relay.Result{Payload: page.Logs}
}
