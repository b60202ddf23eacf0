package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineInput_OnePressPerLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := newLineInput(ctx, strings.NewReader("\n\n"))

	assert.Eventually(t, func() bool { return in.pending.Load() == 2 }, time.Second, time.Millisecond)
	assert.True(t, in.Pressed())
	assert.True(t, in.Pressed())
	assert.False(t, in.Pressed())
}

func TestNewInputSource(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newInputSource(ctx, InputAuto, nil).Pressed())
	assert.False(t, newInputSource(ctx, InputNone, nil).Pressed())
}

func TestIsValidInput(t *testing.T) {
	for _, mode := range []string{InputNone, InputStdin, InputAuto} {
		assert.NoError(t, isValidInput(mode))
	}
	assert.Error(t, isValidInput("mouse"))
}
