package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	assert.Equal(t, "group:health_bar", GroupKey("health_bar").String())
	assert.Equal(t, "var:left", VarKey("left").String())
	assert.NotEqual(t, GroupKey("left"), VarKey("left"))
}

func TestValidIdentifier(t *testing.T) {
	for _, ok := range []string{"left", "_x", "health_bar", "Width2", "élan"} {
		assert.True(t, ValidIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "_", "2d", "health bar", "a-b", "x.y"} {
		assert.False(t, ValidIdentifier(bad), bad)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Left":      "left",
		"BarWidth":  "bar_width",
		"HPMax":     "hp_max",
		"X":         "x",
		"Offset2D":  "offset2_d",
		"Already_x": "already_x",
	}
	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), in)
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "HealthBar", CamelCase("health_bar"))
	assert.Equal(t, "Left", CamelCase("left"))
	assert.Equal(t, "X2", CamelCase("x_2"))
	assert.Equal(t, "", CamelCase("__"))
}
