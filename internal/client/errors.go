package client

import "fmt"

// TransportError reports a failed round trip: network failure, timeout, or a
// response body that is not JSON. It is surfaced verbatim and never retried;
// the tool is interactive and the user retries by hand.
type TransportError struct {
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on %s: %v", e.Endpoint, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// BackendError reports a domain-level failure: the HTTP round trip worked
// but the backend flagged an error, via the HTTP status or a status field in
// the body. Detail carries the backend-provided message.
type BackendError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	return e.Detail
}
