package adapter

import "errors"

// Sentinel transport errors. mapHTTPError wraps these with the response
// body so callers can both match with [errors.Is] and log the detail.
var (
	// ErrBadRequest maps 400: the request was malformed. Permanent — the
	// same payload will never succeed.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized maps 401: the token is missing, expired, or revoked.
	ErrUnauthorized = errors.New("device unauthorized")

	// ErrForbidden maps 403: the device lacks permission for the entity.
	ErrForbidden = errors.New("device forbidden")

	// ErrNotFound maps 404.
	ErrNotFound = errors.New("resource not found")

	// ErrVersionConflict maps 409: optimistic-lock failure on push.
	ErrVersionConflict = errors.New("version conflict")

	// ErrServerUnavailable maps 5xx: transient server-side failure, the
	// operation is retried under the queue backoff.
	ErrServerUnavailable = errors.New("server unavailable")
)

// IsTransient reports whether err represents a failure that may succeed on
// retry. Network-level errors (no HTTP response at all) are transient by
// definition and handled separately by the caller.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServerUnavailable)
}

// IsPermanent reports whether err can never succeed with the same payload.
// Such mutations are failed with the permanent flag immediately instead of
// looping through backoff.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrForbidden)
}
