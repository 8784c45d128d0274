package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("DRS_STR", "  value ")
	t.Setenv("DRS_BOOL", "true")
	t.Setenv("DRS_BAD_BOOL", "maybe")

	assert.Equal(t, "value", Get("DRS_STR", "x"))
	assert.Equal(t, "x", Get("DRS_UNSET", "x"))
	assert.True(t, GetBool("DRS_BOOL", false))
	assert.False(t, GetBool("DRS_UNSET", false))
	assert.True(t, GetBool("DRS_BAD_BOOL", true))
}
