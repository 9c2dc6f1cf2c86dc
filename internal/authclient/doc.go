// Package authclient provides an HTTP client for authenticated API calls
// using a JWT access/refresh token pair.
//
// The client attaches the access token as a bearer token on every request.
// When the token is near its exp claim it is refreshed proactively; when
// the server answers 401 anyway, the client refreshes once and retries the
// request a single time before giving up. A failed refresh invokes the
// configured auth-expired handler so the caller can prompt for
// re-authentication.
package authclient
