package domain

import "errors"

// Business errors. Client errors (caller-fixable) map to 4xx, the rest to
// 5xx; see transport/web/v1.
var (
	ErrBadParams            = errors.New("bad_params")             // 400
	ErrUnauth               = errors.New("unauthorized")           // 401
	ErrForbidden            = errors.New("forbidden")              // 403
	ErrNotFound             = errors.New("not_found")              // 404
	ErrMethodNotAllowed     = errors.New("method_not_allowed")     // 405
	ErrMediaTooLarge        = errors.New("media_too_large")        // 413
	ErrUnsupportedMediaType = errors.New("unsupported_media_type") // 415
	ErrNotImplemented       = errors.New("not_implemented")        // 501
	ErrUnexpected           = errors.New("unexpected")             // 500
)

// Stable error codes for the response envelope.
const (
	ErrCodeBadParams            = 1000
	ErrCodeUnauth               = 1001
	ErrCodeForbidden            = 1003
	ErrCodeNotFound             = 1004
	ErrCodeMethodNotAllowed     = 1005
	ErrCodeMediaTooLarge        = 1013
	ErrCodeUnsupportedMediaType = 1015
	ErrCodeNotImplemented       = 1051
	ErrCodeUnexpected           = 1050
)

// IsClientError reports whether err belongs to the caller-fixable category.
func IsClientError(err error) bool {
	for _, e := range []error{
		ErrBadParams, ErrUnauth, ErrForbidden, ErrNotFound,
		ErrMethodNotAllowed, ErrMediaTooLarge, ErrUnsupportedMediaType,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
