package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorf(t *testing.T) {
	assert.EqualError(t, NewErrorf("username %q is taken", "alice"), `username "alice" is taken`)
}

func TestRecover(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover("worker")
		panic("boom")
	})
}
