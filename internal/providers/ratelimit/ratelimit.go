// Package ratelimit throttles and retries generative provider calls.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/goliatone/go-cms-modules/pkg/interfaces"
)

// Config controls the shared limiter and the retry policy.
type Config struct {
	// RequestsPerSecond caps provider calls; zero or negative disables the limiter.
	RequestsPerSecond float64
	Burst             int
	// MaxAttempts counts the first call; values below one mean one.
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig returns one call per second with three attempts.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 1,
		Burst:             2,
		MaxAttempts:       3,
		Backoff:           500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
	}
}

// Policy applies the limiter and retry loop to any call.
type Policy struct {
	limiter *rate.Limiter
	cfg     Config
	sleep   func(context.Context, time.Duration) error
}

func NewPolicy(cfg Config) *Policy {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = cfg.Backoff
	}
	p := &Policy{cfg: cfg, sleep: sleepContext}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return p
}

// Do runs fn until it succeeds, returns a permanent error, or attempts run out.
func (p *Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	backoff := p.cfg.Backoff
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("ratelimit: wait: %w", err)
			}
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !Retriable(err) || attempt == p.cfg.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, backoff); err != nil {
			return fmt.Errorf("ratelimit: backoff: %w", err)
		}
		backoff *= 2
		if backoff > p.cfg.MaxBackoff {
			backoff = p.cfg.MaxBackoff
		}
	}
	return lastErr
}

// Retriable reports whether err is transient: deadlines, 408/409/429 and 5xx
// responses from the provider SDKs, network timeouts, dropped connections and
// go-errors values marked retryable. Anything else fails fast.
func Retriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if status, ok := statusCode(err); ok {
		return retriableStatus(status)
	}
	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF)
}

// statusCode extracts the HTTP status carried by SDK errors.
func statusCode(err error) (int, bool) {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) && anthropicErr.StatusCode > 0 {
		return anthropicErr.StatusCode, true
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) && genaiErr.Code > 0 {
		return genaiErr.Code, true
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil && genaiPtr.Code > 0 {
		return genaiPtr.Code, true
	}
	return 0, false
}

func retriableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StructuredProvider wraps a StructuredContentProvider with a Policy.
type StructuredProvider struct {
	next   interfaces.StructuredContentProvider
	policy *Policy
}

func WrapStructured(next interfaces.StructuredContentProvider, policy *Policy) *StructuredProvider {
	return &StructuredProvider{next: next, policy: policy}
}

var _ interfaces.StructuredContentProvider = (*StructuredProvider)(nil)

func (p *StructuredProvider) GenerateStructured(ctx context.Context, prompt string, descriptor interfaces.TypeDescriptor) (map[string]any, error) {
	var out map[string]any
	err := p.policy.Do(ctx, func(ctx context.Context) error {
		fields, err := p.next.GenerateStructured(ctx, prompt, descriptor)
		if err != nil {
			return err
		}
		out = fields
		return nil
	})
	if err != nil {
		return nil, interfaces.NewProviderError("ratelimit", "generate_structured", err)
	}
	return out, nil
}

// ImageGenerator wraps an ImageGenerator with a Policy.
type ImageGenerator struct {
	next   interfaces.ImageGenerator
	policy *Policy
}

func WrapImages(next interfaces.ImageGenerator, policy *Policy) *ImageGenerator {
	return &ImageGenerator{next: next, policy: policy}
}

var _ interfaces.ImageGenerator = (*ImageGenerator)(nil)

func (g *ImageGenerator) Generate(ctx context.Context, prompt string, options map[string]any) (*interfaces.GeneratedImage, error) {
	var out *interfaces.GeneratedImage
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		img, err := g.next.Generate(ctx, prompt, options)
		if err != nil {
			return err
		}
		out = img
		return nil
	})
	if err != nil {
		return nil, interfaces.NewProviderError("ratelimit", "generate_image", err)
	}
	return out, nil
}
