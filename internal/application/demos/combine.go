package demos

import (
	"context"
	"fmt"

	"github.com/aescanero/rxplay/pkg/reactive/operators"
	"github.com/reactivex/rxgo/v2"
)

type user struct {
	UID float64
}

// switchMapDemo switches a user stream to that user's orders
func switchMapDemo(ctx context.Context, env *Env) error {
	users := rxgo.Just(user{UID: env.RandFloat()})()

	fetchOrders := func(uid float64) rxgo.Observable {
		return rxgo.Just(fmt.Sprintf("%v's order data", uid))()
	}

	orders := operators.Pipe(users, operators.SwitchMap(func(v interface{}) rxgo.Observable {
		return fetchOrders(v.(user).UID)
	}))

	return env.consume(ctx, orders, nil)
}

// randomFloats emits one random float per subscription
func randomFloats(env *Env) rxgo.Observable {
	return rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		rxgo.Of(env.RandFloat()).SendContext(ctx, next)
	}})
}

func comboSources(env *Env) []rxgo.Observable {
	random := randomFloats(env)
	delayed := operators.Delay(env.timing.Delay)(random)
	return []rxgo.Observable{delayed, random, random, random}
}

// combineLatestDemo prints the latest values once every source has emitted
func combineLatestDemo(ctx context.Context, env *Env) error {
	combo := rxgo.CombineLatest(func(values ...interface{}) interface{} {
		return fmt.Sprint(values)
	}, comboSources(env))

	return env.consume(ctx, combo, nil)
}

// mergeDemo prints the three immediate values, a marker, then the delayed one
func mergeDemo(ctx context.Context, env *Env) error {
	merged := rxgo.Merge(comboSources(env))

	seen := 0
	for item := range merged.Observe(rxgo.WithContext(ctx)) {
		if item.Error() {
			env.PrintError(item.E)
			continue
		}
		env.Print(item.V)

		seen++
		switch seen {
		case 3:
			env.Print("first three^")
		case 4:
			env.Print("delayed value ^")
		}
	}
	return ctx.Err()
}
