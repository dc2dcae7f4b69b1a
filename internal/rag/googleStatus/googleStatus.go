package googleStatus

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Classify maps a genai/transport error onto the enumerated kinds so the
// callers never have to match substrings in provider messages.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", apperrors.ErrAuth, apiErr.Message)
		case http.StatusBadRequest:
			//the REST surface reports bad keys as INVALID_ARGUMENT
			return fmt.Errorf("%w: %s", apperrors.ErrAuth, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", apperrors.ErrQuota, apiErr.Message)
		case http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %s", apperrors.ErrThrottle, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", apperrors.ErrProvider, apiErr.Message)
		}
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("%w: %s", apperrors.ErrAuth, s.Message())
		case codes.ResourceExhausted:
			return fmt.Errorf("%w: %s", apperrors.ErrQuota, s.Message())
		case codes.Unavailable:
			return fmt.Errorf("%w: %s", apperrors.ErrThrottle, s.Message())
		}
	}

	return fmt.Errorf("%w: %s", apperrors.ErrProvider, err.Error())
}

// IsRetriable reports throttling (429) and transient unavailability (503).
// Anything else propagates immediately.
func IsRetriable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusServiceUnavailable
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted || s.Code() == codes.Unavailable
	}
	return false
}
