package validation

import (
	"fmt"
	"net/http"
	"strconv"
)

// QueryNumber extracts and validates an integer value out of the query parameters of the given request
func QueryNumber(request *http.Request, key string, required bool, def, min, max int64) (int64, error) {
	// Extract the raw string value
	value := request.URL.Query().Get(key)
	if value == "" {
		if required {
			return 0, fmt.Errorf("the query parameter '%s' is required", key)
		}
		return def, nil
	}

	// Try to parse the value
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("the query parameter '%s' ('%s') is not a number", key, value)
	}

	// Check if the parsed value is in the required range
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("the query parameter '%s' is out of the required range (%d - %d)", key, min, max)
	}

	return parsed, nil
}
