package config

import (
	"errors"
	"fmt"

	"github.com/dshills/glance/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates an explicitly requested config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
	// Code categorizes the validation error.
	Code ValidationErrorCode
	// Source names the layer the value came from.
	Source string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
	if e.Source != "" {
		msg += " from " + e.Source
	}
	return msg
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeUnknownSetting indicates an unrecognized setting path.
	ErrCodeUnknownSetting ValidationErrorCode = iota
	// ErrCodeTypeMismatch indicates the value type is wrong.
	ErrCodeTypeMismatch
	// ErrCodeInvalidEnum indicates the value is not in the allowed enum.
	ErrCodeInvalidEnum
	// ErrCodeRequiredMissing indicates a required setting is empty.
	ErrCodeRequiredMissing
	// ErrCodeOutOfRange indicates a value is too large.
	ErrCodeOutOfRange
)

// String returns a human-readable name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeUnknownSetting:
		return "unknown_setting"
	case ErrCodeTypeMismatch:
		return "type_mismatch"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeRequiredMissing:
		return "required_missing"
	case ErrCodeOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}
