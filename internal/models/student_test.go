package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePreferences(t *testing.T) {
	assert.Equal(t, []string{"algebra", "Geometry"}, ParsePreferences("algebra, Geometry"))
	assert.Equal(t, []string{"logic"}, ParsePreferences(" ,logic,, "))
	assert.Empty(t, ParsePreferences(""))
}
