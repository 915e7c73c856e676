// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package, calls
// the service layer and writes JSON responses. Errors are returned to the
// global error handler rather than written here.
package handler
