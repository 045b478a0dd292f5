package ledger

import "fmt"

// RequestError normalizes every gateway failure mode: network errors,
// non-2xx responses, and malformed response bodies. The underlying cause is
// available through errors.Unwrap; StatusCode is zero when no HTTP response
// was received.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: api request failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: api request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
