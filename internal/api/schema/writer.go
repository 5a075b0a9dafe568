package schema

import (
	"encoding/json"
	"net/http"
)

// Writer helps writing unified API responses
type Writer struct {
	InternalErrorHook func(err error)
}

// WriteJSONWithCode writes the JSON representation of value to the given response writer using the given HTTP status code
func (writer *Writer) WriteJSONWithCode(rw http.ResponseWriter, code int, value interface{}) {
	val, _ := json.Marshal(value)
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	rw.Write(val)
}

// WriteJSON writes the JSON representation of value to the given response writer.
// This method sends 200 OK as the HTTP status code; use WriteJSONWithCode to use a different one.
func (writer *Writer) WriteJSON(rw http.ResponseWriter, value interface{}) {
	writer.WriteJSONWithCode(rw, http.StatusOK, value)
}

// WriteError sends an error response
func (writer *Writer) WriteError(rw http.ResponseWriter, code int, message string) {
	writer.WriteJSONWithCode(rw, code, &ErrorResponse{
		Error: message,
	})
}

// WriteInternalError processes an internal server error and writes it to the response
func (writer *Writer) WriteInternalError(rw http.ResponseWriter, err error) {
	if writer.InternalErrorHook != nil {
		writer.InternalErrorHook(err)
	}
	writer.WriteError(rw, http.StatusInternalServerError, MessageInternalError)
}
