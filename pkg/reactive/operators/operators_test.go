package operators

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reactivex/rxgo/v2"
)

func square(_ context.Context, v interface{}) (interface{}, error) {
	n := v.(int)
	return n * n, nil
}

func ints(t *testing.T, items []interface{}) []int {
	t.Helper()
	out := make([]int, len(items))
	for i, v := range items {
		n, ok := v.(int)
		if !ok {
			t.Fatalf("item %d is %T, want int", i, v)
		}
		out[i] = n
	}
	return out
}

func TestPipeAppliesOperatorsInOrder(t *testing.T) {
	addOne := MapOp(func(_ context.Context, v interface{}) (interface{}, error) {
		return v.(int) + 1, nil
	})

	got, err := Pipe(rxgo.Just(1, 2, 3)(), MapOp(square), addOne).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{2, 5, 10}
	vals := ints(t, got)
	if len(vals) != len(want) {
		t.Fatalf("expected %v, got %v", want, vals)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vals)
		}
	}
}

func TestOperatorValueAppliedDirectly(t *testing.T) {
	got, err := MapOp(square)(rxgo.Just(1, 2, 3)()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals := ints(t, got)
	if len(vals) != 3 || vals[0] != 1 || vals[1] != 4 || vals[2] != 9 {
		t.Fatalf("expected [1 4 9], got %v", vals)
	}
}

func TestScanOpEmitsRunningTotals(t *testing.T) {
	sum := ScanOp(func(_ context.Context, acc, v interface{}) (interface{}, error) {
		if acc == nil {
			return v, nil
		}
		return acc.(int) + v.(int), nil
	})

	got, err := sum(rxgo.Just(1, 2, 3, 4)()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals := ints(t, got)
	want := []int{1, 3, 6, 10}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vals)
		}
	}
}

func TestDelayShiftsItems(t *testing.T) {
	start := time.Now()
	got, err := Delay(30 * time.Millisecond)(rxgo.Just("x")()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected [x], got %v", got)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected at least 30ms delay, got %v", elapsed)
	}
}

func TestTakeUntilStopsWhenNotifierCompletes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source := rxgo.Interval(rxgo.WithDuration(5*time.Millisecond), rxgo.WithContext(ctx))
	notifier := rxgo.Timer(rxgo.WithDuration(60 * time.Millisecond))

	got, err := TakeUntil(notifier)(source).ToSlice(0, rxgo.WithContext(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("take until did not stop before the test deadline")
	}
	if len(got) == 0 {
		t.Fatalf("expected some values before the notifier fired")
	}

	vals := ints(t, got)
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1]+1 {
			t.Fatalf("expected consecutive values, got %v", vals)
		}
	}
}

func TestTakeUntilStopsOnNotifierItem(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source := rxgo.Interval(rxgo.WithDuration(5*time.Millisecond), rxgo.WithContext(ctx))
	notifier := Delay(40 * time.Millisecond)(rxgo.Just("stop")())

	got, err := TakeUntil(notifier)(source).ToSlice(0, rxgo.WithContext(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("take until did not stop before the test deadline")
	}
	if len(got) > 20 {
		t.Fatalf("expected the source to stop early, got %d values", len(got))
	}
}

func TestThrottleDropsItemsInsideWindow(t *testing.T) {
	got, err := Throttle(time.Hour)(rxgo.Just(1, 2, 3, 4)()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only the first item, got %v", got)
	}
}

func TestThrottlePassesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Throttle(time.Hour)(rxgo.Thrown(boom)).ToSlice(0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSwitchMapMirrorsLatestInner(t *testing.T) {
	project := func(v interface{}) rxgo.Observable {
		return rxgo.Just(v.(int) * 10)()
	}

	got, err := SwitchMap(project)(rxgo.Just(1, 2, 3)()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals := ints(t, got)
	if len(vals) == 0 || vals[len(vals)-1] != 30 {
		t.Fatalf("expected the last inner value 30 to be emitted, got %v", vals)
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			t.Fatalf("expected increasing values from successive inners, got %v", vals)
		}
	}
}

func TestSwitchMapSingleItem(t *testing.T) {
	project := func(v interface{}) rxgo.Observable {
		return rxgo.Just(v.(string)+"'s order data")()
	}

	got, err := SwitchMap(project)(rxgo.Just("u1")()).ToSlice(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "u1's order data" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestSwitchMapInnerError(t *testing.T) {
	boom := errors.New("boom")
	project := func(interface{}) rxgo.Observable {
		return rxgo.Thrown(boom)
	}

	_, err := SwitchMap(project)(rxgo.Just(1)()).ToSlice(0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
