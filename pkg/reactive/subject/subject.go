package subject

import (
	"context"
	"sync"

	"github.com/reactivex/rxgo/v2"
)

const defaultBuffer = 16

// Option configures a Subject
type Option func(*options)

type options struct {
	buffer   int
	strategy rxgo.BackpressureStrategy
}

// WithBuffer sets the per-subscriber channel capacity
func WithBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// WithBackpressure selects what Next does when a subscriber's buffer is full:
// rxgo.Block waits for the subscriber, rxgo.Drop skips the value for it.
func WithBackpressure(strategy rxgo.BackpressureStrategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// Subject is a hot source that is also a sink: values pushed with Next are
// multicast to every current subscriber. Late subscribers only see what the
// replay buffer holds; a plain Subject keeps none.
type Subject struct {
	opts options

	// replay is the number of latest values handed to new subscribers;
	// replayAfterDone keeps replaying them once the subject has terminated.
	replay          int
	replayAfterDone bool

	// emitMu serializes Next/Error/Complete so a subscriber channel is never
	// closed while a value is being sent to it.
	emitMu sync.Mutex

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	buffer      []interface{}
	err         error
	done        bool
}

type subscriber struct {
	ch        chan rxgo.Item
	gone      chan struct{}
	closeOnce sync.Once
	goneOnce  sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

func (s *subscriber) leave() {
	s.goneOnce.Do(func() { close(s.gone) })
}

// New creates a Subject without replay
func New(opts ...Option) *Subject {
	return newSubject(0, false, opts...)
}

// NewBehavior creates a BehaviorSubject: it holds a current value, seeded
// with initial, and hands it to every new subscriber.
func NewBehavior(initial interface{}, opts ...Option) *Subject {
	s := newSubject(1, false, opts...)
	s.buffer = append(s.buffer, initial)
	return s
}

// NewReplay creates a ReplaySubject that hands the last n values to new
// subscribers, including after completion.
func NewReplay(n int, opts ...Option) *Subject {
	if n < 0 {
		n = 0
	}
	return newSubject(n, true, opts...)
}

func newSubject(replay int, replayAfterDone bool, opts ...Option) *Subject {
	o := options{buffer: defaultBuffer, strategy: rxgo.Block}
	for _, opt := range opts {
		opt(&o)
	}
	return &Subject{
		opts:            o,
		replay:          replay,
		replayAfterDone: replayAfterDone,
		subscribers:     make(map[*subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its observable. The
// subscription ends when the subject terminates or ctx is done.
func (s *Subject) Subscribe(ctx context.Context) rxgo.Observable {
	s.mu.Lock()
	defer s.mu.Unlock()

	// room for the replayed values and the terminal item
	sub := &subscriber{
		ch:   make(chan rxgo.Item, s.opts.buffer+len(s.buffer)+1),
		gone: make(chan struct{}),
	}

	if !s.done || s.replayAfterDone {
		for _, v := range s.buffer {
			sub.ch <- rxgo.Of(v)
		}
	}

	if s.done {
		if s.err != nil {
			sub.ch <- rxgo.Error(s.err)
		}
		sub.close()
		return rxgo.FromChannel(sub.ch)
	}

	s.subscribers[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(sub)
		case <-sub.gone:
		}
	}()

	return rxgo.FromChannel(sub.ch)
}

// Next pushes a value to all current subscribers. It is a no-op once the
// subject has terminated.
func (s *Subject) Next(v interface{}) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	if s.replay > 0 {
		s.buffer = append(s.buffer, v)
		if len(s.buffer) > s.replay {
			s.buffer = s.buffer[len(s.buffer)-s.replay:]
		}
	}
	subs := s.snapshot()
	s.mu.Unlock()

	item := rxgo.Of(v)
	for _, sub := range subs {
		if s.opts.strategy == rxgo.Drop {
			select {
			case sub.ch <- item:
			case <-sub.gone:
			default:
			}
			continue
		}
		select {
		case sub.ch <- item:
		case <-sub.gone:
		}
	}
}

// Error terminates the subject with err. Current and future subscribers
// receive the error.
func (s *Subject) Error(err error) {
	s.terminate(err)
}

// Complete terminates the subject successfully
func (s *Subject) Complete() {
	s.terminate(nil)
}

// Value returns the latest value held by the replay buffer
func (s *Subject) Value() (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) == 0 {
		return nil, false
	}
	return s.buffer[len(s.buffer)-1], true
}

// Subscribers returns the number of active subscribers
func (s *Subject) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Subject) terminate(err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.err = err
	subs := s.snapshot()
	s.subscribers = make(map[*subscriber]struct{})
	s.mu.Unlock()

	for _, sub := range subs {
		if err != nil {
			select {
			case sub.ch <- rxgo.Error(err):
			case <-sub.gone:
			}
		}
		sub.close()
		sub.leave()
	}
}

func (s *Subject) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers, sub)
	s.mu.Unlock()

	sub.leave()

	s.emitMu.Lock()
	sub.close()
	s.emitMu.Unlock()
}

// snapshot must be called with mu held
func (s *Subject) snapshot() []*subscriber {
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	return subs
}
