package demos

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/reactivex/rxgo/v2"
	"go.uber.org/zap"
)

// Timing holds the durations demos wait on. Tests shrink them.
type Timing struct {
	// Delay shifts the delayed source of combine-latest and merge
	Delay time.Duration
	// Interval is the period of interval sources
	Interval time.Duration
	// Timer fires take-until's notifier
	Timer time.Duration
	// Tick separates values inside a burst
	Tick time.Duration
	// Quiet is the debounce and throttle window; bursts are 3*Quiet apart
	Quiet time.Duration
}

// DefaultTiming returns the durations used from the CLI
func DefaultTiming() Timing {
	return Timing{
		Delay:    time.Second,
		Interval: 100 * time.Millisecond,
		Timer:    2 * time.Second,
		Tick:     10 * time.Millisecond,
		Quiet:    100 * time.Millisecond,
	}
}

// EnvConfig holds everything a demo may need
type EnvConfig struct {
	Out       io.Writer
	Logger    *zap.Logger
	Client    *http.Client
	ServerURL string
	Timing    Timing
	Seed      int64

	// OnPrint is called with every printed line
	OnPrint func(line string)
}

// Env is what a demo runs against. Printing is safe for concurrent use.
type Env struct {
	out       io.Writer
	logger    *zap.Logger
	client    *http.Client
	serverURL string
	timing    Timing
	onPrint   func(string)

	mu   sync.Mutex
	rand *rand.Rand
}

// NewEnv creates an Env, filling unset fields with defaults
func NewEnv(cfg EnvConfig) *Env {
	e := &Env{
		out:       cfg.Out,
		logger:    cfg.Logger,
		client:    cfg.Client,
		serverURL: cfg.ServerURL,
		timing:    cfg.Timing,
		onPrint:   cfg.OnPrint,
	}
	if e.out == nil {
		e.out = io.Discard
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.client == nil {
		e.client = &http.Client{Timeout: 10 * time.Second}
	}
	if e.serverURL == "" {
		e.serverURL = "http://localhost:5000/"
	}
	if e.timing == (Timing{}) {
		e.timing = DefaultTiming()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rand = rand.New(rand.NewSource(seed))
	return e
}

// Print writes v on its own line
func (e *Env) Print(v interface{}) {
	line := fmt.Sprint(v)

	e.mu.Lock()
	defer e.mu.Unlock()

	fmt.Fprintln(e.out, line)
	if e.onPrint != nil {
		e.onPrint(line)
	}
}

// PrintError prints a stream error the way a subscriber's error callback would
func (e *Env) PrintError(err error) {
	e.logger.Warn("stream error", zap.Error(err))
	e.Print("error: " + err.Error())
}

// RandInt returns a random integer in [1, 99]
func (e *Env) RandInt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rand.Intn(99) + 1
}

// RandFloat returns a random float in [0, 1)
func (e *Env) RandFloat() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rand.Float64()
}

// consume subscribes to it, prints every value and error, and calls
// onComplete once the stream ends without an error and without ctx being done.
func (e *Env) consume(ctx context.Context, it rxgo.Iterable, onComplete func()) error {
	failed := false
	for item := range it.Observe(rxgo.WithContext(ctx)) {
		if item.Error() {
			failed = true
			e.PrintError(item.E)
			continue
		}
		e.Print(item.V)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if onComplete != nil && !failed {
		onComplete()
	}
	return nil
}
