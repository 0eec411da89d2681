package demos

import (
	"context"
	"fmt"
	"sort"

	"github.com/aescanero/rxplay/pkg/domain"
)

// Func runs one demo
type Func func(ctx context.Context, env *Env) error

// Demo is a named entry of the catalog
type Demo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Run         Func   `yaml:"-"`
}

// Catalog indexes demos by name
type Catalog struct {
	demos map[string]Demo
}

// NewCatalog creates a catalog holding the given demos
func NewCatalog(demos ...Demo) (*Catalog, error) {
	c := &Catalog{demos: make(map[string]Demo, len(demos))}
	for _, d := range demos {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Builtin returns the catalog of all built-in demos
func Builtin() *Catalog {
	c, err := NewCatalog(builtins()...)
	if err != nil {
		panic(fmt.Sprintf("invalid builtin catalog: %v", err))
	}
	return c
}

// Register adds a demo. Names must be unique and non-empty.
func (c *Catalog) Register(d Demo) error {
	if d.Name == "" {
		return fmt.Errorf("demo name is required")
	}
	if d.Run == nil {
		return fmt.Errorf("demo %s has no run function", d.Name)
	}
	if _, exists := c.demos[d.Name]; exists {
		return fmt.Errorf("duplicate demo: %s", d.Name)
	}
	c.demos[d.Name] = d
	return nil
}

// Get looks a demo up by name
func (c *Catalog) Get(name string) (Demo, error) {
	d, ok := c.demos[name]
	if !ok {
		return Demo{}, fmt.Errorf("%w: %s", domain.ErrDemoNotFound, name)
	}
	return d, nil
}

// List returns all demos sorted by name
func (c *Catalog) List() []Demo {
	out := make([]Demo, 0, len(c.demos))
	for _, d := range c.demos {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func builtins() []Demo {
	return []Demo{
		{Name: "maps", Description: "square 1,2,3 with Map, fluently and as a standalone operator", Run: mapsDemo},
		{Name: "api", Description: "map three URL emissions to sequential GETs of the hello-world server", Run: apiDemo},
		{Name: "api-alt", Description: "wrap a single GET in a created observable with next/error/complete", Run: apiAltDemo},
		{Name: "cold", Description: "a cold source runs once per subscriber", Run: coldDemo},
		{Name: "hot", Description: "shareReplay(1) makes subscribers share one execution", Run: hotDemo},
		{Name: "subject", Description: "a Subject does not replay to late subscribers", Run: subjectDemo},
		{Name: "behavior-subject", Description: "a BehaviorSubject hands its current value to new subscribers", Run: behaviorSubjectDemo},
		{Name: "pipes", Description: "scan a running sum over 1..10", Run: pipesDemo},
		{Name: "reduce", Description: "reduce 1..10 to its sum", Run: reduceDemo},
		{Name: "switch-map", Description: "switch a user stream to the user's orders", Run: switchMapDemo},
		{Name: "combine-latest", Description: "combine a delayed and three immediate random sources", Run: combineLatestDemo},
		{Name: "merge", Description: "merge a delayed and three immediate random sources", Run: mergeDemo},
		{Name: "errors", Description: "catch a subject's error, then retry", Run: errorsDemo},
		{Name: "retry", Description: "retry a source that fails twice", Run: retryDemo},
		{Name: "take-while", Description: "interval limited by a predicate", Run: takeWhileDemo},
		{Name: "take-until", Description: "interval limited by a timer", Run: takeUntilDemo},
		{Name: "unsubscribe", Description: "interval cancelled from inside its subscriber", Run: unsubscribeDemo},
		{Name: "debounce", Description: "emit only after a burst has gone quiet", Run: debounceDemo},
		{Name: "throttle", Description: "emit the first value of a burst, drop the rest of the window", Run: throttleDemo},
		{Name: "buffer", Description: "collect values into slices of three", Run: bufferDemo},
	}
}
