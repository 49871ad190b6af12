package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	SubjectKey   contextKey = "subject"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendError writes err as the standard envelope. Internal errors never leak their cause.
func SendError(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse(string(CodeInternal), "internal server error", nil))
	}

	details := appErr.Details
	if details == nil && appErr.Field != "" {
		details = map[string]string{appErr.Field: appErr.Message}
	}
	message := appErr.Message
	if appErr.Code == CodeValidation && appErr.Field != "" {
		message = "Validation failed"
	}
	return c.JSON(StatusFor(appErr), CreateErrorResponse(string(appErr.Code), message, details))
}

// ValidateUUID parses a path or query id, rejecting anything that is not a canonical UUID.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	if len(idStr) != 36 {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s must be exactly 36 characters (including hyphens)", fieldName))
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s contains invalid characters", fieldName))
	}
	return id, nil
}

// ValidateDateFormat parses a YYYY-MM-DD date in the local zone.
func ValidateDateFormat(dateStr, fieldName string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(dateStr), time.Local)
	if err != nil {
		return time.Time{}, NewValidationError(fieldName, fmt.Sprintf("%s must be in YYYY-MM-DD format", fieldName))
	}
	return date, nil
}

// ValidateDateRange rejects ranges whose end precedes their start.
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return NewValidationError("to", "end date cannot be before start date")
	}
	return nil
}

// maxSearchRunes bounds a free-text filter before escaping.
const maxSearchRunes = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SanitizeSearchQuery trims and bounds a free-text filter and escapes LIKE
// metacharacters so they match literally under ESCAPE '\'.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	if runes := []rune(query); len(runes) > maxSearchRunes {
		query = strings.TrimSpace(string(runes[:maxSearchRunes]))
	}
	return likeEscaper.Replace(query)
}

// ValidatePaginationParams clamps limit to [1,100] (default 50) and offset to >= 0.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func GetSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectKey).(string)
	return sub, ok
}
