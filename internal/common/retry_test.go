package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")
	fast := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first time", failures: 0, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, err: errBoom, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, err: errBoom, wantCalls: 3, wantErr: ErrMaxRetries},
		{
			name:      "stops on non-retryable error",
			failures:  5,
			err:       Permanent(errBoom),
			wantCalls: 1,
			wantErr:   errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, fast)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type statusError struct{ code int }

func (e statusError) Error() string   { return "status error" }
func (e statusError) Retryable() bool { return e.code >= 500 }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), true},
		{"permanent", Permanent(errors.New("boom")), false},
		{"wrapped permanent", fmt.Errorf("send: %w", Permanent(errors.New("boom"))), false},
		{"server error", statusError{code: 502}, true},
		{"client error", statusError{code: 404}, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("probe: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestWithRetry_ErrorNamesOperation(t *testing.T) {
	err := WithRetry(context.Background(), func() error { return errors.New("down") }, RetryOptions{
		Name:         "slack webhook",
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack webhook")
	assert.Contains(t, err.Error(), "after 2 attempts: down")
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return errors.New("always") }, RetryOptions{
		MaxAttempts:  5,
		InitialDelay: time.Second,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not read dataset", ErrInvalidInput)
	assert.Equal(t, "could not read dataset: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())
}
