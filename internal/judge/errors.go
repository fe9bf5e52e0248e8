package judge

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for every response the judge answered with an error
// status. Callers match on it instead of probing response fields.
type HTTPError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *HTTPError) Error() string {
	body := string(e.Body)
	if r := []rune(body); len(r) > 200 {
		body = string(r[:200]) + "..."
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

// IsBadRequest reports whether the judge rejected the request with 400.
func (e *HTTPError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
