// Package requestid tags every HTTP request with a correlation id carried in
// the X-Request-ID header, the request context and the logs.
package requestid
