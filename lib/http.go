package lib

import (
	"errors"
	"net/http"
)

// HttpClient is the part of *http.Client the recognisers need. It exists so
// that tests can substitute a mock transport.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrBackendUnavailable marks configuration failures: the backend's sidecar
// could not be reached at all, as opposed to an inference failure on a
// reachable backend. Wrap it with the backend name for context.
var ErrBackendUnavailable = errors.New("backend unavailable")
