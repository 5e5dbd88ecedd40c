// Package clientip resolves the caller's IP address and carries it through the
// request context. Forwarding headers are honoured only when the request comes
// from a configured trusted proxy, so callers cannot pick their own identity.
package clientip
