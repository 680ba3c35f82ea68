package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "inatexport/pkg/errors"
	"inatexport/pkg/logger"
)

func testConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "connection reset", 0)
		}
		return nil
	}, testConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	opErr := errs.New(errs.ErrorTypeServerError, "bad gateway", 502)
	err := Do(func() error {
		calls++
		return opErr
	}, testConfig())

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts")
	assert.ErrorIs(t, err, opErr)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	opErr := errs.New(errs.ErrorTypeTaxonNotFound, "no match", 0)
	err := Do(func() error {
		calls++
		return opErr
	}, testConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, opErr)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig()
	cfg.Context = ctx
	cfg.Delay = time.Minute

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(func() error {
			calls++
			return errs.New(errs.ErrorTypeNetwork, "timeout", 0)
		}, cfg)
	}()

	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestDoOnRetryCallback(t *testing.T) {
	cfg := testConfig()
	var attempts []int
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
		assert.Equal(t, cfg.Delay, delay)
	}

	_ = Do(func() error {
		return errs.New(errs.ErrorTypeNetwork, "flaky", 0)
	}, cfg)

	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errs.New(errs.ErrorTypeNetwork, "flaky", 0)
		}
		return "page", nil
	}, testConfig())

	require.NoError(t, err)
	assert.Equal(t, "page", result)
	assert.Equal(t, 2, calls)
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"network error", errs.New(errs.ErrorTypeNetwork, "x", 0), true},
		{"rate limit error", errs.New(errs.ErrorTypeRateLimit, "x", 429), true},
		{"server error", errs.New(errs.ErrorTypeServerError, "x", 503), true},
		{"taxon not found", errs.New(errs.ErrorTypeTaxonNotFound, "x", 0), false},
		{"parsing error", errs.New(errs.ErrorTypeParsing, "x", 200), false},
		{"context cancelled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"plain error", errors.New("something"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRetryIf(tt.err))
		})
	}
}

func TestWaitReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
