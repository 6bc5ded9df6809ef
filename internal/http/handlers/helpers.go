package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"talentx/internal/common"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeValidation, "request body is required", nil)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewError(common.CodeValidation, "request body too large", nil)
		}
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	return nil
}

// decodeOptionalJSON accepts an empty body and leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	return nil
}

// idFromPath returns the UUID at segment idx of the path below /api.
// For /api/jobs/{id}/apply the id is segment 1.
func idFromPath(r *http.Request, idx int) (common.UUID, error) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if idx < 0 || idx >= len(parts) || parts[idx] == "" {
		return "", common.NewValidationError("invalid request", map[string]string{"id": "id is required"})
	}
	id, err := common.ParseUUID(parts[idx])
	if err != nil {
		return "", common.NewError(common.CodeNotFound, "not found", nil)
	}
	return id, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

// parseDeadline accepts RFC 3339 timestamps or plain dates, read as midnight UTC.
func parseDeadline(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, common.NewValidationError("invalid job", map[string]string{"application_deadline": "must be RFC 3339 or YYYY-MM-DD"})
	}
	return &parsed, nil
}
