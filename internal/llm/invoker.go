package llm

import (
	"context"
	"strings"
	"time"
)

// DefaultBaseDelay is the base unit for the invoker's linear backoff. The
// wait before retrying after attempt n is n * baseDelay. Tests shrink this
// to avoid real sleeps.
const DefaultBaseDelay = 2 * time.Second

// InvokeOptions tunes a single invocation.
type InvokeOptions struct {
	// CacheKey enables memoization when non-empty: a hit skips the oracle
	// entirely and a successful call is stored under the key.
	CacheKey string
}

// Invoker drives a single oracle call through an ordered model fallback
// list. Models are tried in order with the first tuned for quality and
// later entries for availability; each failure backs off and advances.
type Invoker struct {
	client    Client
	cache     *Cache
	baseDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewInvoker creates an invoker. cache may be nil to disable memoization.
func NewInvoker(client Client, cache *Cache, baseDelay time.Duration) *Invoker {
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Invoker{
		client:    client,
		cache:     cache,
		baseDelay: baseDelay,
		sleep:     sleepCtx,
	}
}

// Invoke sends the prompt to each model in order until one returns usable
// text. stage labels the call for cache keys and errors. It fails with
// *AllModelsExhaustedError only when every model has failed.
func (inv *Invoker) Invoke(ctx context.Context, stage string, prompt string, models []string, opts InvokeOptions) (string, error) {
	if len(models) == 0 {
		return "", &AllModelsExhaustedError{Stage: stage, Models: nil, LastErr: &OracleError{Message: "no models configured"}}
	}

	if inv.cache != nil && opts.CacheKey != "" {
		if data, ok := inv.cache.Get(opts.CacheKey); ok {
			return data, nil
		}
	}

	var lastErr error
	for attempt, model := range models {
		if attempt > 0 {
			if err := inv.sleep(ctx, time.Duration(attempt)*inv.baseDelay); err != nil {
				return "", err
			}
		}

		text, err := inv.client.GenerateContent(ctx, model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastErr = &OracleError{Model: model, Message: "blank response"}
			continue
		}

		if inv.cache != nil && opts.CacheKey != "" {
			inv.cache.Put(opts.CacheKey, text)
		}
		return text, nil
	}

	return "", &AllModelsExhaustedError{Stage: stage, Models: models, LastErr: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
