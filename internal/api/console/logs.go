package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/console-server/internal/api/validation"
	"github.com/opsdeck/console-server/internal/query"
)

// logFilters builds the filter set recognized by the log retrieval endpoints.
// The declaration order below is the canonical field order of the composed query.
func logFilters(request *http.Request) (*query.FilterSet, error) {
	values := request.URL.Query()

	filters := query.NewFilterSet()
	filters.Set("project_id", values.Get("project_id"))
	if serverIDs := values["server_id"]; len(serverIDs) > 0 {
		filters.SetValues("server_id", serverIDs)
	}
	filters.Set("time_range", values.Get("time_range"))
	filters.Set("start_time", values.Get("start_time"))
	filters.Set("end_time", values.Get("end_time"))

	pageSize, err := validation.QueryNumber(request, "page_size", false, 0, 1, 500)
	if err != nil {
		return nil, err
	}
	if pageSize > 0 {
		filters.SetInt("page_size", pageSize)
	}

	return filters, nil
}

// EndpointGetLogs handles the 'GET /v1/tool-call-logs' endpoint
func (service *Service) EndpointGetLogs(writer http.ResponseWriter, request *http.Request) {
	filters, err := logFilters(request)
	if err != nil {
		service.writer.WriteError(writer, http.StatusBadRequest, err.Error())
		return
	}

	service.writeRelayResult(writer, service.logs.List(request.Context(), requestSession(request), filters))
}

// EndpointGetLogMetrics handles the 'GET /v1/tool-call-logs/metrics' endpoint
func (service *Service) EndpointGetLogMetrics(writer http.ResponseWriter, request *http.Request) {
	filters, err := logFilters(request)
	if err != nil {
		service.writer.WriteError(writer, http.StatusBadRequest, err.Error())
		return
	}

	service.writeRelayResult(writer, service.logs.Metrics(request.Context(), requestSession(request), filters))
}

// EndpointGetRecentLogs handles the 'GET /v1/tool-call-logs/recent' endpoint
func (service *Service) EndpointGetRecentLogs(writer http.ResponseWriter, request *http.Request) {
	filters, err := logFilters(request)
	if err != nil {
		service.writer.WriteError(writer, http.StatusBadRequest, err.Error())
		return
	}
	filters.Set("since", request.URL.Query().Get("since"))

	service.writeRelayResult(writer, service.logs.Recent(request.Context(), requestSession(request), filters))
}

// EndpointGetLog handles the 'GET /v1/tool-call-logs/{logID}?project_id={string}' endpoint
func (service *Service) EndpointGetLog(writer http.ResponseWriter, request *http.Request) {
	logID := chi.URLParam(request, "logID")
	projectID := request.URL.Query().Get("project_id")
	if projectID == "" {
		service.writer.WriteError(writer, http.StatusBadRequest, "the query parameter 'project_id' is required")
		return
	}

	service.writeRelayResult(writer, service.logs.Detail(request.Context(), requestSession(request), logID, projectID))
}
