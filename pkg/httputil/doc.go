// Package httputil provides the request and response helpers of the
// termmap API server.
//
// # Responses
//
// [WriteJSON] encodes a value with the given status. [WriteError] maps a
// structured error to its status with [errors.HTTPStatus] and writes
//
//	{"error": {"code": "PARSE_ERROR", "message": "expected term at offset 3"}}
//
// # Requests
//
// [DecodeJSON] reads at most [MaxBodyBytes] and rejects unknown fields, so
// misspelt options fail loudly instead of being ignored.
//
// # Middleware
//
// [Observe] reports every request to the observability HTTP hooks.
//
// [errors.HTTPStatus]: github.com/matzehuels/termmap/pkg/errors.HTTPStatus
package httputil
