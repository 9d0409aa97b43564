package simpleorm

import "github.com/m-housh/simpleorm/schema"

// Error types are declared in the schema package so that every layer
// below the model façade can raise them; they are re-exported here as
// the canonical surface.
type (
	// ConfigError reports invalid model, schema or statement
	// configuration. Fatal to the operation, never retried.
	ConfigError = schema.ConfigError
	// MappingError reports a record that could not be mapped into a
	// model instance.
	MappingError = schema.MappingError
)

// Sentinel errors for use with errors.Is.
var (
	ErrConfig  = schema.ErrConfig
	ErrMapping = schema.ErrMapping
)

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool { return schema.IsConfigError(err) }

// IsMappingError returns true if the error is a MappingError.
func IsMappingError(err error) bool { return schema.IsMappingError(err) }
