package demos

import (
	"context"

	"github.com/aescanero/rxplay/pkg/reactive/subject"
	"github.com/reactivex/rxgo/v2"
)

// randomSource emits one random integer per subscription
func randomSource(env *Env) rxgo.Observable {
	return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		rxgo.Of(env.RandInt()).SendContext(ctx, next)
	}})
}

// coldDemo prints two independent random numbers
func coldDemo(ctx context.Context, env *Env) error {
	cold := randomSource(env)
	if err := env.consume(ctx, cold, nil); err != nil {
		return err
	}
	return env.consume(ctx, cold, nil)
}

// hotDemo prints the same random number twice
func hotDemo(ctx context.Context, env *Env) error {
	hot := subject.ShareReplay(randomSource(env), 1)
	defer hot.Stop()

	if err := env.consume(ctx, hot.Subscribe(ctx), nil); err != nil {
		return err
	}
	return env.consume(ctx, hot.Subscribe(ctx), nil)
}

// subjectDemo shows that a subscriber added after the values were pushed
// receives nothing.
func subjectDemo(ctx context.Context, env *Env) error {
	s := subject.New()
	first := s.Subscribe(ctx)

	s.Next("Hello")
	s.Next("World")

	late := s.Subscribe(ctx)
	s.Complete()

	if err := env.consume(ctx, first, nil); err != nil {
		return err
	}
	return env.consume(ctx, late, nil)
}

// behaviorSubjectDemo prints Hola, Mundo for the first subscriber and Mundo
// for the second.
func behaviorSubjectDemo(ctx context.Context, env *Env) error {
	bs := subject.NewBehavior("Hola")
	first := bs.Subscribe(ctx)

	bs.Next("Mundo")

	second := bs.Subscribe(ctx)
	bs.Complete()

	if err := env.consume(ctx, first, nil); err != nil {
		return err
	}
	return env.consume(ctx, second, nil)
}
