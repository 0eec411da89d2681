package operators

import (
	"context"
	"sync"
	"time"

	"github.com/reactivex/rxgo/v2"
)

// Operator transforms one observable into another
type Operator func(rxgo.Observable) rxgo.Observable

// Pipe applies ops to src from left to right
func Pipe(src rxgo.Observable, ops ...Operator) rxgo.Observable {
	for _, op := range ops {
		src = op(src)
	}
	return src
}

// MapOp returns Map as a standalone operator value
func MapOp(apply rxgo.Func, opts ...rxgo.Option) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return src.Map(apply, opts...)
	}
}

// ScanOp returns Scan as a standalone operator value
func ScanOp(apply rxgo.Func2, opts ...rxgo.Option) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return src.Scan(apply, opts...)
	}
}

// Delay shifts every item by d. Errors pass through undelayed.
func Delay(d time.Duration) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return src.Map(func(ctx context.Context, v interface{}) (interface{}, error) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return v, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	}
}

// TakeUntil mirrors the source until notifier emits its first item or
// completes, whichever happens first. rxgo's own TakeUntil takes a predicate.
func TakeUntil(notifier rxgo.Observable) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			stop := make(chan struct{})
			go func() {
				defer close(stop)
				for range notifier.Observe(rxgo.WithContext(ctx)) {
					return
				}
			}()

			items := src.Observe(rxgo.WithContext(ctx))
			for {
				select {
				case <-stop:
					return
				case <-ctx.Done():
					return
				case item, ok := <-items:
					if !ok {
						return
					}
					if !item.SendContext(ctx, next) || item.Error() {
						return
					}
				}
			}
		}})
	}
}

// Throttle lets an item through, then ignores items for d.
// Each subscription keeps its own window.
func Throttle(d time.Duration) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var last time.Time
			for item := range src.Observe(rxgo.WithContext(ctx)) {
				if item.Error() {
					item.SendContext(ctx, next)
					return
				}
				now := time.Now()
				if !last.IsZero() && now.Sub(last) < d {
					continue
				}
				last = now
				if !item.SendContext(ctx, next) {
					return
				}
			}
		}})
	}
}

// SwitchMap projects each source item to an inner observable and mirrors only
// the most recent one: a new source item cancels the previous inner
// observable. An error from the source or from an inner observable ends the
// stream.
func SwitchMap(project func(interface{}) rxgo.Observable) Operator {
	return func(src rxgo.Observable) rxgo.Observable {
		return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
			ctx, cancelAll := context.WithCancel(ctx)
			defer cancelAll()

			var (
				wg          sync.WaitGroup
				cancelInner context.CancelFunc = func() {}
			)
			defer func() {
				wg.Wait()
				cancelInner()
			}()

			for item := range src.Observe(rxgo.WithContext(ctx)) {
				// at most one inner forwards at a time
				cancelInner()
				wg.Wait()

				if item.Error() {
					item.SendContext(ctx, next)
					return
				}

				innerCtx, cancel := context.WithCancel(ctx)
				cancelInner = cancel
				inner := project(item.V)

				wg.Add(1)
				go func() {
					defer wg.Done()
					for it := range inner.Observe(rxgo.WithContext(innerCtx)) {
						if innerCtx.Err() != nil {
							return
						}
						if !it.SendContext(innerCtx, next) {
							return
						}
						if it.Error() {
							cancelAll()
							return
						}
					}
				}()
			}
		}})
	}
}
