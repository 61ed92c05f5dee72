// Package httputil provides shared HTTP response helpers for handlers.
//
// Page handlers write HTML through the renderer; these helpers cover the
// remaining cases (health JSON, plain-text errors, generic 500s) so that
// every endpoint formats errors and logs failures the same way.
package httputil
