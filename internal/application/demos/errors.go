package demos

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aescanero/rxplay/pkg/reactive/subject"
	"github.com/reactivex/rxgo/v2"
	"go.uber.org/zap"
)

func always(error) bool { return true }

// errorsDemo prints good then the fallback value; the retry never sees the
// error because it was caught upstream.
func errorsDemo(ctx context.Context, env *Env) error {
	sub := subject.New()

	recovered := sub.Subscribe(ctx).
		OnErrorReturnItem("something broke").
		Retry(2, always)

	sub.Next("good")
	sub.Error(errors.New("broken!"))

	return env.consume(ctx, recovered, nil)
}

// retryDemo resubscribes to a source that fails on its first two
// subscriptions.
func retryDemo(ctx context.Context, env *Env) error {
	var attempts int32

	flaky := rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			env.logger.Debug("attempt failed", zap.Int32("attempt", n))
			rxgo.Error(fmt.Errorf("attempt %d failed", n)).SendContext(ctx, next)
			return
		}
		rxgo.Of(fmt.Sprintf("recovered after %d attempts", n)).SendContext(ctx, next)
	}})

	return env.consume(ctx, flaky.Retry(2, always, rxgo.WithContext(ctx)), nil)
}
