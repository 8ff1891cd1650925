// Package transport is the HTTP adapter between mico and the MICO backend.
//
// It resolves api.Ref values to request URLs, attaches JSON and bearer
// headers, and decodes JSON responses. POST and DELETE responses without a
// body are reported as NoContent rather than failing to decode.
//
// Failures are never retried. A response outside 2xx becomes an *HTTPError;
// a request that could not reach the backend becomes a *ConnectionError.
//
// Bearer tokens come either from a per-call WithToken option or from the
// client's oauth2.TokenSource (StaticTokenSource or FileTokenSource).
package transport
