package tokens

import "context"

// Publisher is a shared snapshot stage that can be subscribed to
type Publisher interface {
	Snapshotter
	Subscribe() (<-chan []Token, func())
}

// Stream runs a suggestion session over inputs in its own goroutine and
// returns the emitted lists in the order their triggers arrived. There is no
// debouncing: every query and every upstream change produces one full list.
//
// The output is closed when a selection interrupts the session, inputs is
// closed, the feed ends, or ctx is done.
func Stream(ctx context.Context, feed Publisher, inputs <-chan FieldValue) <-chan []Token {
	out := make(chan []Token)

	go func() {
		defer close(out)

		updates, cancel := feed.Subscribe()
		defer cancel()

		s := NewSuggester(feed)
		send := func(list []Token) bool {
			select {
			case out <- list:
				return true
			case <-ctx.Done():
				return false
			}
		}

		// seed with the empty query; the snapshot read below supersedes any
		// value already queued on the subscription
		select {
		case <-updates:
		default:
		}
		if list, emitted := s.Refresh(); emitted && !send(list) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case v, ok := <-inputs:
				if !ok {
					return
				}
				list, emitted := s.Input(v)
				if s.State() == Interrupted {
					return
				}
				if emitted && !send(list) {
					return
				}

			case _, ok := <-updates:
				if !ok {
					return
				}
				if list, emitted := s.Refresh(); emitted && !send(list) {
					return
				}
			}
		}
	}()

	return out
}
