// Package api provides the request executor for the FedaPay API. It builds
// requests, sends them through a transport.Connection, retries transient
// failures with jittered exponential backoff and classifies failures into
// typed errors.
//
// # Requests
//
// [Client.Execute] performs one logical call. Parameters are form encoded:
// in the query string for GET, HEAD and DELETE, in the body otherwise.
// Parameters embedded in the path are merged beneath explicit ones.
// POST and DELETE requests carry an Idempotency-Key header, generated once
// per logical call and reused on every retry.
//
// # Retry Behavior
//
// Timeouts, connection failures and HTTP 409 Conflict are retried up to
// [RetryPolicy.MaxRetries] times. The delay before retry n is
//
//	max(initial, min(initial*2^(n-1), max) * 0.5 * (1 + rand))
//
// TLS failures and all other errors are returned immediately.
//
// # Error Handling
//
// Non-2xx responses become *apierrors.Error values: 400 and 404 are invalid
// requests, 401 is an authentication failure and anything else, including
// unparseable bodies, is an API error. Transport failures that are not
// retried become connection errors.
//
// # Scopes
//
// [Client.Request] binds a fresh scope to the context passed to its
// callback. Calls made with that context share the last response and the
// telemetry metrics of the previous request. Calls outside a scope share
// nothing.
package api
