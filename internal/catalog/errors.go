package catalog

import "errors"

// Error categories surfaced through the transport envelope. Callers classify
// failures with errors.Is; the wrapped message is what reaches the client.
var (
	// ErrInvalidRequest marks malformed bodies, unknown actions, and missing
	// required parameters. Requests failing this way never reach the upstream
	// adapter.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstream marks adapter or provider failures. No cache entry is
	// written when a request fails this way.
	ErrUpstream = errors.New("upstream failure")

	// ErrCache marks cache store failures. The service treats these as
	// non-fatal and degrades to serving live data.
	ErrCache = errors.New("cache failure")
)
