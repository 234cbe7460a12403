package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCargoArgs(t *testing.T) {
	assert.Equal(t, []string{"build", "--release"}, cargoArgs([]string{"l1x", "build", "--release"}))
	assert.Equal(t, []string{"build"}, cargoArgs([]string{"build"}))
	assert.Equal(t, []string{}, cargoArgs([]string{"l1x"}))
	assert.Empty(t, cargoArgs(nil))
}
