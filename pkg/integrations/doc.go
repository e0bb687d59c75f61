// Package integrations provides the shared HTTP client for upstream APIs.
//
// # Overview
//
// The [Client] type wraps net/http with the behavior every upstream client
// needs: default headers, a bounded timeout ([DefaultTimeout]), optional
// client-side pacing through golang.org/x/time/rate, and classification of
// failures into coded errors from [errors]:
//
//   - 401 → UNAUTHORIZED
//   - 403 → FORBIDDEN, message taken from the body's error.message
//   - 404 → NOT_FOUND
//   - 429 → RATE_LIMITED
//   - any other non-2xx → HTTP_ERROR
//   - timeouts → TIMEOUT, other transport failures → NETWORK_ERROR
//
// Failed responses carry a [StatusError] cause with the raw status and the
// upstream message. There is no retry: a failure is reported once and the
// caller decides what to do.
//
// Every request emits [observability.HTTP] events.
//
// # Subpackages
//
//   - [youtube]: YouTube Data API v3 (categories, trending, search)
//
// [errors]: github.com/matzehuels/tubetrend/pkg/errors
// [observability.HTTP]: github.com/matzehuels/tubetrend/pkg/observability.HTTP
// [youtube]: github.com/matzehuels/tubetrend/pkg/integrations/youtube
package integrations
