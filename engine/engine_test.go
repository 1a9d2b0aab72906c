package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New("vinyl", "", nil)
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Contains(t, err.Error(), `unknown backend "vinyl"`)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-0.2))
	assert.Equal(t, 0.0, clampVolume(0))
	assert.Equal(t, 0.35, clampVolume(0.35))
	assert.Equal(t, 1.0, clampVolume(1))
	assert.Equal(t, 1.0, clampVolume(2.7))
}
