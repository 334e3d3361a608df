// Package ditesting builds deterministic containers for tests.
package ditesting

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-modules/internal/di"
	"github.com/goliatone/go-cms-modules/internal/notifications"
	"github.com/goliatone/go-cms-modules/internal/providers/fixture"
	"github.com/goliatone/go-cms-modules/internal/runtimeconfig"
)

// Harness bundles a container with the recording collaborators it was built with.
type Harness struct {
	Container     *di.Container
	Notifications *notifications.Recorder
	Structured    *fixture.Structured
	Images        *fixture.Images
	Clock         *Clock
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SequentialIDs returns a generator yielding 00000000-0000-0000-0000-000000000001,
// ...0002 and so on.
func SequentialIDs() func() uuid.UUID {
	var (
		mu sync.Mutex
		n  int
	)
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
	}
}

// New builds an in-memory container with the fixture providers, a recording
// notifier, a fixed clock, and sequential ids. cfg mutators run before
// validation; fixtureOpts tune the structured provider.
func New(t testing.TB, configure func(*runtimeconfig.Config), fixtureOpts ...fixture.Option) *Harness {
	t.Helper()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Images = true
	cfg.Generation.ImageProvider = "fixture"
	if configure != nil {
		configure(&cfg)
	}

	h := &Harness{
		Notifications: notifications.NewRecorder(),
		Structured:    fixture.NewStructured(fixtureOpts...),
		Images:        fixture.NewImages(),
		Clock:         NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	container, err := di.NewContainer(cfg,
		di.WithNotifier(h.Notifications),
		di.WithStructuredProvider(h.Structured),
		di.WithImageGenerator(h.Images),
		di.WithClock(h.Clock.Now),
		di.WithIDGenerator(SequentialIDs()),
	)
	if err != nil {
		t.Fatalf("ditesting: new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	h.Container = container
	return h
}
