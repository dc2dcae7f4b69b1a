package apperrors

import "errors"

// Enumerated error kinds raised at the provider/storage boundaries.
// Callers classify with errors.Is instead of matching message text.
var (
	ErrAuth       = errors.New("provider authentication failed")
	ErrQuota      = errors.New("provider quota or rate limit exceeded")
	ErrThrottle   = errors.New("provider throttled the request")
	ErrProvider   = errors.New("provider request failed")
	ErrStorage    = errors.New("vector store unavailable")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

func IsQuota(err error) bool { return errors.Is(err, ErrQuota) }

func IsThrottle(err error) bool { return errors.Is(err, ErrThrottle) }

func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
