package demos

import (
	"context"

	"github.com/aescanero/rxplay/pkg/reactive/operators"
	"github.com/reactivex/rxgo/v2"
)

func square(_ context.Context, v interface{}) (interface{}, error) {
	n := v.(int)
	return n * n, nil
}

func sum(_ context.Context, acc, v interface{}) (interface{}, error) {
	if acc == nil {
		return v, nil
	}
	return acc.(int) + v.(int), nil
}

func oneToTen() rxgo.Observable {
	return rxgo.Range(1, 10)
}

// mapsDemo prints 1 4 9 twice
func mapsDemo(ctx context.Context, env *Env) error {
	if err := env.consume(ctx, rxgo.Just(1, 2, 3)().Map(square), nil); err != nil {
		return err
	}

	// the operator is a value; apply it to the source directly
	squareAll := operators.MapOp(square)
	return env.consume(ctx, squareAll(rxgo.Just(1, 2, 3)()), nil)
}

// pipesDemo prints every intermediate sum of 1..10
func pipesDemo(ctx context.Context, env *Env) error {
	return env.consume(ctx, operators.Pipe(oneToTen(), operators.ScanOp(sum)), nil)
}

// reduceDemo prints only the final sum of 1..10
func reduceDemo(ctx context.Context, env *Env) error {
	return env.consume(ctx, oneToTen().Reduce(sum), nil)
}
