// Package binder decodes HTTP requests into typed request structs for
// handler.Wrap. JSON reads the body; Path reads router parameters.
package binder
