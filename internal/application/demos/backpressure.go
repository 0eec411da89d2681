package demos

import (
	"context"
	"time"

	"github.com/aescanero/rxplay/pkg/reactive/operators"
	"github.com/reactivex/rxgo/v2"
)

// bursts emits 1..12 in three bursts of four, Tick apart inside a burst and
// 3*Quiet between bursts. It stays quiet after the last burst before
// completing so time-based operators can flush.
func bursts(timing Timing) rxgo.Observable {
	return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		v := 0
		for b := 0; b < 3; b++ {
			for i := 0; i < 4; i++ {
				v++
				if !rxgo.Of(v).SendContext(ctx, next) {
					return
				}
				if !sleep(ctx, timing.Tick) {
					return
				}
			}
			if !sleep(ctx, 3*timing.Quiet) {
				return
			}
		}
	}})
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// debounceDemo prints the last value of each burst
func debounceDemo(ctx context.Context, env *Env) error {
	return env.consume(ctx, bursts(env.timing).Debounce(rxgo.WithDuration(env.timing.Quiet)), nil)
}

// throttleDemo prints the first value of each burst
func throttleDemo(ctx context.Context, env *Env) error {
	return env.consume(ctx, operators.Throttle(env.timing.Quiet)(bursts(env.timing)), nil)
}

// bufferDemo prints the values three at a time
func bufferDemo(ctx context.Context, env *Env) error {
	return env.consume(ctx, bursts(env.timing).BufferWithCount(3), nil)
}
