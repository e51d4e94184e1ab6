package live

import "context"

// Event is one full snapshot from a stream, or the error of the query that
// should have produced it
type Event[T any] struct {
	Value T
	Err   error
}

// Stream re-runs a query every time its topic changes. C is closed once the
// stream has stopped.
type Stream[T any] struct {
	C <-chan Event[T]

	cancel context.CancelFunc
	done   chan struct{}
}

// Watch subscribes to topic, delivers the first snapshot, then a fresh one
// after each change. Query errors are delivered as events and the stream
// keeps running.
func Watch[T any](ctx context.Context, hub *Hub, topic string, load func(context.Context) (T, error)) *Stream[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Event[T], 1)
	s := &Stream[T]{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Subscribe before the first load so no change slips in between
	sub := hub.Subscribe(topic)

	go func() {
		defer close(s.done)
		defer close(out)
		defer sub.Close()

		if !emit(ctx, out, load) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.C:
				if !emit(ctx, out, load) {
					return
				}
			}
		}
	}()

	return s
}

func emit[T any](ctx context.Context, out chan<- Event[T], load func(context.Context) (T, error)) bool {
	value, err := load(ctx)
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- Event[T]{Value: value, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Cancel stops the stream and waits for its goroutine to exit. An event
// buffered before the cancel may still sit on C; callers drop C afterwards.
func (s *Stream[T]) Cancel() {
	s.cancel()
	<-s.done
}
