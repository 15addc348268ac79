package common

import "fmt"

// APIError is a failure reported by the exchange HTTP API.
type APIError struct {
	Op       string // logical operation, e.g. "fetch_balance"
	Status   int    // HTTP status, 0 when the request never completed
	Code     string // exchange error code, if any
	Message  string
	Endpoint string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s status %d code %s: %s", e.Op, e.Endpoint, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s status %d: %s", e.Op, e.Endpoint, e.Status, e.Message)
}
