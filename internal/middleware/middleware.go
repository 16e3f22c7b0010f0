// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request logging, tracing, metrics, CORS, upload rate
// limiting, panic recovery, and the process-wide error page.
package middleware
