package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts per-model responses and records the call order.
type fakeClient struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeClient) GenerateContent(_ context.Context, model, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func (f *fakeClient) Close() error { return nil }

func newTestInvoker(client Client, cache *Cache) *Invoker {
	inv := NewInvoker(client, cache, time.Nanosecond)
	inv.sleep = func(context.Context, time.Duration) error { return nil }
	return inv
}

func TestInvokeFirstModelSucceeds(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{"model-a": "answer"}}
	inv := newTestInvoker(fc, nil)

	got, err := inv.Invoke(context.Background(), "design-system", "prompt", []string{"model-a", "model-b"}, InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.Equal(t, []string{"model-a"}, fc.calls, "fallback models must not be consulted after a success")
}

func TestInvokeFallsBackInOrder(t *testing.T) {
	fc := &fakeClient{
		responses: map[string]string{"model-c": "third time lucky"},
		errs: map[string]error{
			"model-a": errors.New("rate limited"),
			"model-b": errors.New("overloaded"),
		},
	}
	inv := newTestInvoker(fc, nil)

	got, err := inv.Invoke(context.Background(), "layout-strategy", "prompt", []string{"model-a", "model-b", "model-c"}, InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", got)
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, fc.calls)
}

func TestInvokeBlankResponseCountsAsFailure(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		"model-a": "   \n\t ",
		"model-b": "real content",
	}}
	inv := newTestInvoker(fc, nil)

	got, err := inv.Invoke(context.Background(), "content-batch", "prompt", []string{"model-a", "model-b"}, InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "real content", got)
	assert.Len(t, fc.calls, 2)
}

func TestInvokeAllModelsExhausted(t *testing.T) {
	boom := errors.New("quota exceeded")
	fc := &fakeClient{errs: map[string]error{"model-a": boom, "model-b": boom}}
	inv := newTestInvoker(fc, nil)

	_, err := inv.Invoke(context.Background(), "creative-direction", "prompt", []string{"model-a", "model-b"}, InvokeOptions{})
	require.Error(t, err)

	var exhausted *AllModelsExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "creative-direction", exhausted.Stage)
	assert.Equal(t, []string{"model-a", "model-b"}, exhausted.Models)
	assert.ErrorIs(t, exhausted.LastErr, boom)
}

func TestInvokeNoModelsConfigured(t *testing.T) {
	inv := newTestInvoker(&fakeClient{}, nil)
	_, err := inv.Invoke(context.Background(), "creative-direction", "prompt", nil, InvokeOptions{})

	var exhausted *AllModelsExhaustedError
	require.ErrorAs(t, err, &exhausted)
}

func TestInvokeCacheHitSkipsClient(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{"model-a": "fresh"}}
	cache := NewCache(time.Minute)
	inv := newTestInvoker(fc, cache)
	key := Key("design-system", "brief")

	got, err := inv.Invoke(context.Background(), "design-system", "prompt", []string{"model-a"}, InvokeOptions{CacheKey: key})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	require.Len(t, fc.calls, 1)

	got, err = inv.Invoke(context.Background(), "design-system", "prompt", []string{"model-a"}, InvokeOptions{CacheKey: key})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	assert.Len(t, fc.calls, 1, "second invocation must be served from cache")
}

func TestInvokeFailureIsNotCached(t *testing.T) {
	fc := &fakeClient{errs: map[string]error{"model-a": errors.New("down")}}
	cache := NewCache(time.Minute)
	inv := newTestInvoker(fc, cache)
	key := Key("content-batch", "x")

	_, err := inv.Invoke(context.Background(), "content-batch", "prompt", []string{"model-a"}, InvokeOptions{CacheKey: key})
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestInvokeBackoffBetweenAttempts(t *testing.T) {
	fc := &fakeClient{errs: map[string]error{
		"model-a": errors.New("down"),
		"model-b": errors.New("down"),
		"model-c": errors.New("down"),
	}}
	inv := NewInvoker(fc, nil, 10*time.Millisecond)

	var delays []time.Duration
	inv.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := inv.Invoke(context.Background(), "layout-strategy", "prompt", []string{"model-a", "model-b", "model-c"}, InvokeOptions{})
	require.Error(t, err)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, delays,
		"backoff grows linearly and the first attempt does not wait")
}

func TestInvokeCancelledDuringBackoff(t *testing.T) {
	fc := &fakeClient{errs: map[string]error{"model-a": errors.New("down")}}
	inv := NewInvoker(fc, nil, time.Millisecond)
	inv.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inv.Invoke(ctx, "content-batch", "prompt", []string{"model-a", "model-b"}, InvokeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fc.calls, 1, "cancellation stops the fallback walk")
}
