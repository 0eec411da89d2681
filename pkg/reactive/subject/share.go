package subject

import (
	"context"
	"sync"

	"github.com/reactivex/rxgo/v2"
)

// Shared turns a cold observable hot: the source is observed once, on the
// first subscription, and its last n values are replayed to every subscriber.
// The upstream subscription belongs to Shared, not to any subscriber; it
// runs until the source terminates or Stop is called.
type Shared struct {
	source  rxgo.Observable
	subject *Subject
	once    sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

// ShareReplay shares src between subscribers, replaying its last n values
func ShareReplay(src rxgo.Observable, n int, opts ...Option) *Shared {
	ctx, cancel := context.WithCancel(context.Background())
	return &Shared{
		source:  src,
		subject: NewReplay(n, opts...),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Subscribe returns a subscription to the shared source. ctx bounds only
// this subscription.
func (s *Shared) Subscribe(ctx context.Context) rxgo.Observable {
	obs := s.subject.Subscribe(ctx)
	s.once.Do(func() {
		go s.connect()
	})
	return obs
}

// Stop cancels the upstream subscription. Subscribers see completion.
func (s *Shared) Stop() {
	s.cancel()
}

func (s *Shared) connect() {
	defer s.cancel()

	for item := range s.source.Observe(rxgo.WithContext(s.ctx)) {
		if item.Error() {
			s.subject.Error(item.E)
			return
		}
		s.subject.Next(item.V)
	}
	s.subject.Complete()
}
