// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP layer is converted into an HTTPError
// so clients always receive the same JSON shape, whether the cause was a
// malformed request, a missing secret message or an unavailable database.
package errs
