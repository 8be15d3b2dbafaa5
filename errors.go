package loom

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors.
var (
	// ErrInvalidConfiguration is matched by every ConfigurationError.
	ErrInvalidConfiguration = errors.New("loom: invalid configuration")

	// ErrInvalidInput is matched by every UserInputError.
	ErrInvalidInput = errors.New("loom: invalid input")
)

// ConfigurationError is returned when the model configuration cannot be
// compiled. Path names the offending model, field or option, for example
// "Post.author" or "Post.ui.searchFields".
type ConfigurationError struct {
	Path    string
	Message string
	Cause   error
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("loom: ")
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Is reports whether the target error matches ErrInvalidConfiguration.
func (e *ConfigurationError) Is(err error) bool {
	return err == ErrInvalidConfiguration
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError returns a new ConfigurationError for the given path.
func NewConfigurationError(path, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError returns a ConfigurationError caused by err.
// A nil err returns nil.
func WrapConfigurationError(path string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &ConfigurationError{Path: path, Message: fmt.Sprintf(format, args...), Cause: err}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e)
}

// ConfigurationPath returns the path of the first ConfigurationError in err's
// chain, or the empty string.
func ConfigurationPath(err error) string {
	var e *ConfigurationError
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// UserInputError is returned by field input resolvers when a value supplied
// to a GraphQL argument is not acceptable.
type UserInputError struct {
	Path    string
	Message string
}

// Error returns the error string.
func (e *UserInputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loom: input error on %s: %s", e.Path, e.Message)
	}
	return "loom: input error: " + e.Message
}

// Is reports whether the target error matches ErrInvalidInput.
func (e *UserInputError) Is(err error) bool {
	return err == ErrInvalidInput
}

// NewUserInputError returns a new UserInputError.
func NewUserInputError(path, format string, args ...any) *UserInputError {
	return &UserInputError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsUserInputError returns true if the error is a UserInputError.
func IsUserInputError(err error) bool {
	if err == nil {
		return false
	}
	var e *UserInputError
	return errors.As(err, &e)
}
