package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrTimeout, CodeTimeout},
		{fmt.Errorf("%w: dial tcp", ErrOllamaUnavailable), CodeUnavailable},
		{fmt.Errorf("%w: no JSON object found", ErrInvalidOutput), CodeInvalidOutput},
		{fmt.Errorf("%w: 400", ErrRejected), CodeRejected},
		{ErrRetryExhausted, CodeUnknown},
		{errors.New("other"), CodeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), "%v", tt.err)
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, classify(ctx, context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, classify(ctx, &net.OpError{Op: "dial", Err: errors.New("refused")}), ErrOllamaUnavailable)
	assert.ErrorIs(t, classify(ctx, &statusError{Code: 404}), ErrRejected)
	assert.ErrorIs(t, classify(ctx, &statusError{Code: 503}), ErrRetryExhausted)

	invalid := fmt.Errorf("%w: decoding response", ErrInvalidOutput)
	assert.Same(t, invalid, classify(ctx, invalid))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, classify(cancelled, &statusError{Code: 500}), ErrTimeout)
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(context.DeadlineExceeded))
	assert.True(t, retryable(&statusError{Code: 502}))
	assert.False(t, retryable(&statusError{Code: 422}))
	assert.False(t, retryable(ErrInvalidOutput))
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveCall(context.Background(), CallEvent{
		Task: TaskSuggest, Model: "llama3.2", Duration: 40 * time.Millisecond, Attempts: 1,
	})
	obs.ObserveCall(context.Background(), CallEvent{
		Task: TaskSummarize, Model: "llama3.2", Attempts: 3, Err: ErrTimeout,
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=llm_call task=suggest")
	assert.Contains(t, out, "duration_ms=40")
	assert.Contains(t, out, "level=WARN msg=llm_call task=summarize")
	assert.Contains(t, out, "code=TIMEOUT")
	assert.IsType(t, NoopObserver{}, NewLogObserver(nil))
}
