// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/biaslens/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxAssetSymbolLength = 32
	MaxNotesLength       = 1024
	MaxUsernameLength    = 64
	MaxChatMessageLength = 4096
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

var (
	assetSymbolRegex = regexp.MustCompile(`^[A-Za-z0-9._\-/]+$`)
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	// Common XSS vectors checked on free-text fields before persisting.
	// Contextual output encoding is the primary defense.
	xssPatternsRegex = regexp.MustCompile(
		`(?i)<script|onerror=|onmouseover=|onfocus=|onload=|javascript:|vbscript:|<iframe|<object|<embed|<applet|<style|<link|<img\s+src\s*=\s*['"]?\s*(javascript|data):`,
	)
)

// ValidateAssetSymbol checks that a ticker is printable, bounded, and made of
// the characters brokers actually emit (letters, digits, dot, dash, slash).
func ValidateAssetSymbol(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("%w: asset symbol cannot be empty", ErrValidationFailed)
	}
	if err := ValidateStringMaxLength(trimmed, MaxAssetSymbolLength, "asset symbol"); err != nil {
		return err
	}
	if !assetSymbolRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: asset symbol ('%s') contains invalid characters", ErrValidationFailed, s)
	}
	return nil
}

// ValidateTradeAction checks that the action is exactly "buy" or "sell".
func ValidateTradeAction(s string) error {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized != "buy" && normalized != "sell" {
		return fmt.Errorf("%w: action must be 'buy' or 'sell', got '%s'", ErrValidationFailed, s)
	}
	return nil
}

// ValidateUsername checks format and length for a username.
func ValidateUsername(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "username"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxUsernameLength, "username"); err != nil {
		return err
	}
	if !usernameRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: username may only contain letters, numbers, underscores, hyphens and dots", ErrValidationFailed)
	}
	return nil
}

func truncateForLog(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// CheckXSSPatterns detects basic XSS patterns in free-text input.
func CheckXSSPatterns(s, fieldName, contextID string) error {
	if xssPatternsRegex.MatchString(s) {
		errMsg := fmt.Sprintf("potential XSS pattern detected in field '%s'", fieldName)
		logger.L.Warn(errMsg, "contextID", contextID, "contentPreview", truncateForLog(s, 50))
		return fmt.Errorf("%w: %s", ErrValidationFailed, errMsg)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateFloatString parses a string to float and checks if it's within a range.
func ValidateFloatString(s, fieldName string, allowNegative bool, minVal, maxVal float64) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid number: %v", ErrValidationFailed, fieldName, s, err)
	}
	if !allowNegative && val < 0 {
		logger.L.Warn("Negative value not allowed for field", "field", fieldName, "value", val)
		return 0, fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	if val < minVal || val > maxVal {
		logger.L.Warn("Float value out of range", "field", fieldName, "value", val, "min", minVal, "max", maxVal)
		return 0, fmt.Errorf("%w: %s must be between %.2f and %.2f, got %.2f", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

// --- Date Validator ---

// ValidateTimestampString checks if a string is a valid RFC 3339 timestamp.
func ValidateTimestampString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid RFC 3339 timestamp: %v", ErrValidationFailed, fieldName, s, err)
	}
	return t, nil
}
