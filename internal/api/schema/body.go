package schema

import (
	"encoding/json"
	"io"
	"net/http"
)

// UnmarshalBody parses and decodes a JSON request body.
// An empty body decodes into the zero value of the target type.
func UnmarshalBody[T any](request *http.Request) (*T, error) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, err
	}

	target := new(T)
	if len(body) == 0 {
		return target, nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, err
	}
	return target, nil
}
