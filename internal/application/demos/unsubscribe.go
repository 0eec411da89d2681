package demos

import (
	"context"

	"github.com/aescanero/rxplay/pkg/reactive/operators"
	"github.com/reactivex/rxgo/v2"
)

// Interval sources are hot in rxgo and keep ticking until their context is
// done, so every demo here cancels its own context on return.

// takeWhileDemo prints 0..10
func takeWhileDemo(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source := rxgo.Interval(rxgo.WithDuration(env.timing.Interval), rxgo.WithContext(ctx))
	limited := source.TakeWhile(func(v interface{}) bool {
		return v.(int) <= 10
	})

	return env.consume(ctx, limited, nil)
}

// takeUntilDemo prints ticks until the timer fires
func takeUntilDemo(ctx context.Context, env *Env) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source := rxgo.Interval(rxgo.WithDuration(env.timing.Interval), rxgo.WithContext(ctx))
	timer := rxgo.Timer(rxgo.WithDuration(env.timing.Timer))

	return env.consume(ctx, operators.TakeUntil(timer)(source), nil)
}

// unsubscribeDemo cancels the subscription from inside the subscriber once
// 10 has been printed.
func unsubscribeDemo(ctx context.Context, env *Env) error {
	sub, unsubscribe := context.WithCancel(ctx)
	defer unsubscribe()

	source := rxgo.Interval(rxgo.WithDuration(env.timing.Interval), rxgo.WithContext(sub))
	disposed := source.ForEach(func(v interface{}) {
		if sub.Err() != nil {
			return
		}
		env.Print(v)
		if v.(int) >= 10 {
			unsubscribe()
		}
	}, env.PrintError, func() {}, rxgo.WithContext(sub))

	select {
	case <-disposed:
	case <-sub.Done():
	}
	return ctx.Err()
}
