package tokens

// State of a suggestion session
type State int

const (
	// Listening accepts typed queries
	Listening State = iota
	// Interrupted follows a committed selection. It is terminal for the
	// session; only a new Suggester resumes suggestions.
	Interrupted
)

func (s State) String() string {
	if s == Interrupted {
		return "interrupted"
	}
	return "listening"
}

// Suggester turns token field input into suggestion lists. Each call that
// emits returns the complete ordered list for the current query, computed
// from the feed's latest snapshot. It is not safe for concurrent use; drive it
// from a single event loop.
type Suggester struct {
	feed    Snapshotter
	state   State
	query   string
	current []Token
}

// NewSuggester starts a session seeded with the empty query
func NewSuggester(feed Snapshotter) *Suggester {
	return &Suggester{feed: feed}
}

// Input feeds a new token field value. Typed text restarts filtering with the
// new query; a selection interrupts the session. The bool reports whether a
// list was emitted.
func (s *Suggester) Input(v FieldValue) ([]Token, bool) {
	if s.state == Interrupted {
		return nil, false
	}
	text, ok := v.Text()
	if !ok {
		s.state = Interrupted
		return nil, false
	}
	s.query = text
	return s.emit()
}

// Refresh recomputes the current query after the upstream snapshot changed
func (s *Suggester) Refresh() ([]Token, bool) {
	if s.state == Interrupted {
		return nil, false
	}
	return s.emit()
}

func (s *Suggester) emit() ([]Token, bool) {
	snapshot, ok := s.feed.Snapshot()
	if !ok {
		return nil, false
	}
	s.current = Filter(snapshot, s.query)
	return s.current, true
}

// Current returns the last emitted list
func (s *Suggester) Current() []Token {
	return s.current
}

func (s *Suggester) Query() string {
	return s.query
}

func (s *Suggester) State() State {
	return s.state
}
