package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSpinnerReturnsWorkResult(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	answer, err := withSpinner(context.Background(), &out, "Thinking...", func(context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", answer)
}

func TestWithSpinnerReturnsWorkError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var out bytes.Buffer
	count, err := withSpinner(context.Background(), &out, "Counting...", func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, count)
}

func TestWithSpinnerWaitsForCanceledWork(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := withSpinner(ctx, &out, "Thinking...", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
}
