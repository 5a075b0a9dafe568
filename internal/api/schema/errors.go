package schema

// ErrorResponse represents the response structure sent by the console API whenever an error occurred
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	// MessageUnauthorized is sent whenever no valid session is present
	MessageUnauthorized = "Unauthorized"

	// MessageInternalError is sent for every locally generated failure
	MessageInternalError = "internal error"

	// MessageNotFound is sent for unknown routes
	MessageNotFound = "not found"

	// MessageMethodNotAllowed is sent for known routes with an unsupported method
	MessageMethodNotAllowed = "method not allowed"
)
