package simpleorm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m-housh/simpleorm"
	"github.com/m-housh/simpleorm/schema"
)

// The root package re-exports the schema error surface; both spellings
// must match the same errors.
func TestErrorAliases(t *testing.T) {
	cfgErr := schema.NewTableConfigError("users", "no manager")
	assert.True(t, simpleorm.IsConfigError(cfgErr))
	assert.True(t, errors.Is(cfgErr, simpleorm.ErrConfig))

	var ce *simpleorm.ConfigError
	assert.True(t, errors.As(cfgErr, &ce))

	mapErr := schema.NewMappingError("users", "_id")
	assert.True(t, simpleorm.IsMappingError(mapErr))
	assert.True(t, errors.Is(mapErr, simpleorm.ErrMapping))

	var me *simpleorm.MappingError
	assert.True(t, errors.As(mapErr, &me))

	assert.False(t, simpleorm.IsConfigError(nil))
	assert.False(t, simpleorm.IsMappingError(nil))
}
