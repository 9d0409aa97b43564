package schema

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for schema and statement configuration.
var (
	// ErrConfig is returned for invalid model or column configuration:
	// duplicate column keys, a column bound to two schemas, a missing
	// primary key for update/delete, or an unknown filter key.
	ErrConfig = errors.New("simpleorm: invalid configuration")

	// ErrMapping is returned when a fetched record cannot be mapped
	// back into a model instance.
	ErrMapping = errors.New("simpleorm: record mapping failed")
)

// ConfigError reports invalid model, schema or statement configuration.
// Configuration errors are fatal to the operation and never retried.
type ConfigError struct {
	Table string // Table of the schema being configured, if known.
	msg   string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("simpleorm: %s: %s", e.Table, e.msg)
	}
	return fmt.Sprintf("simpleorm: %s", e.msg)
}

// Is reports whether the target error matches ErrConfig.
// This allows errors.Is(configErr, ErrConfig) to return true.
func (e *ConfigError) Is(err error) bool {
	return err == ErrConfig
}

// NewConfigError returns a new ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// NewTableConfigError returns a new ConfigError scoped to a table.
func NewTableConfigError(table, format string, args ...any) *ConfigError {
	return &ConfigError{Table: table, msg: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrConfig)
}

// MappingError reports a record that could not be mapped into a model
// instance because an expected column was missing. It signals drift
// between the declared schema and the database table.
type MappingError struct {
	Table  string // Table the schema maps.
	Column string // Column key that was missing from the record.
}

// Error returns the error string.
func (e *MappingError) Error() string {
	return fmt.Sprintf("simpleorm: mapping %s: record has no column %q", e.Table, e.Column)
}

// Is reports whether the target error matches ErrMapping.
func (e *MappingError) Is(err error) bool {
	return err == ErrMapping
}

// NewMappingError returns a new MappingError for the given table and column.
func NewMappingError(table, column string) *MappingError {
	return &MappingError{Table: table, Column: column}
}

// IsMappingError returns true if the error is a MappingError.
func IsMappingError(err error) bool {
	if err == nil {
		return false
	}
	var e *MappingError
	return errors.As(err, &e) || errors.Is(err, ErrMapping)
}
