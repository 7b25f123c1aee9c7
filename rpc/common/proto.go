package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Routes
// --------------------------------------------------------------------------

const (
	PathResources = "/resources"
	PathHealth    = "/health"
	PathMetrics   = "/metrics"

	HeaderRequestID = "X-Request-Id"
	HeaderLocation  = "Location"

	ContentTypeJSON = "application/json"
)

// ResourcePath returns the path of a single resource
func ResourcePath(id uint64) string {
	return PathResources + "/" + strconv.FormatUint(id, 10)
}

// ParseResourcePath extracts the id from a path or Location header created by ResourcePath
func ParseResourcePath(path string) (uint64, error) {
	rest, ok := strings.CutPrefix(path, PathResources+"/")
	if !ok || rest == "" {
		return 0, fmt.Errorf("not a resource path: %q", path)
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid resource id in path %q", path)
	}
	return id, nil
}

// --------------------------------------------------------------------------
// Response bodies
// --------------------------------------------------------------------------

// Error codes used in ErrorResponse.Error
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeTooLarge   = "payload_too_large"
	ErrCodeInternal   = "internal_error"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of a health check
type HealthResponse struct {
	Status string `json:"status"`
}
