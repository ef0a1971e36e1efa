package domain

import "errors"

var (
	ErrMissingField      = errors.New("missing required field")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrConflict          = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrStorageIO         = errors.New("storage i/o failure")

	ErrInvalidToken      = errors.New("invalid session token")
	ErrForbidden         = errors.New("access forbidden")
	ErrSearchUnavailable = errors.New("video search unavailable")
)

// errorCodes is the machine-readable code carried next to the human message in
// API error envelopes, so clients can recover the sentinel across the wire.
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMissingField, "missing_field"},
	{ErrDuplicateUsername, "duplicate_username"},
	{ErrUserNotFound, "user_not_found"},
	{ErrInvalidPassword, "invalid_password"},
	{ErrConflict, "conflict"},
	{ErrNotFound, "not_found"},
	{ErrUnsupportedFormat, "unsupported_format"},
	{ErrPayloadTooLarge, "payload_too_large"},
	{ErrStorageIO, "storage_io"},
	{ErrInvalidToken, "invalid_token"},
	{ErrForbidden, "forbidden"},
	{ErrSearchUnavailable, "search_unavailable"},
}

// ErrorCode returns the wire code for err, or "internal" when err is not a
// known domain error.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// ErrorForCode is the inverse of ErrorCode. Unknown codes yield nil.
func ErrorForCode(code string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	return nil
}
