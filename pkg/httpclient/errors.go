package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
)

// backendErrorBody is the error envelope the Watchify backend returns.
type backendErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// Older backend builds return a bare message field instead.
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an AppError. The response body is fully consumed and closed. The caller
// should only invoke this for error status codes.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var body backendErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil {
		if body.Error != nil {
			return mapStatus(resp.StatusCode, body.Error.Message, serviceName)
		}
		if body.Message != "" {
			return mapStatus(resp.StatusCode, body.Message, serviceName)
		}
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

func mapStatus(status int, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified)
	case status >= 500:
		return apperrors.Upstream(serviceName, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}
