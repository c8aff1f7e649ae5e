package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	weth = Token{Name: "Wrapped Ether", Symbol: "WETH", Address: "0xAAA", Decimals: 18, Connected: true}
	dai  = Token{Name: "Dai", Symbol: "DAI", Address: "0xBBB", Decimals: 18, Connected: false}
	usdc = Token{Name: "USD Coin", Symbol: "USDC", Address: "0xCcC", Decimals: 6, Connected: true}
	wbtc = Token{Name: "Wrapped BTC", Symbol: "WBTC", Address: "0xDDD", Decimals: 8, Connected: true}
)

type fixedSnapshot struct {
	list  []Token
	ready bool
}

func (f *fixedSnapshot) Snapshot() ([]Token, bool) { return f.list, f.ready }

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query", "", true},
		{"name prefix", "wra", true},
		{"name prefix upper", "WRAPPED e", true},
		{"symbol prefix", "we", true},
		{"address prefix", "0xa", true},
		{"substring is not a prefix", "ether", false},
		{"address substring", "AAA", false},
		{"no match", "dai", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Matches(weth, tt.query))
		})
	}
}

func TestFilter(t *testing.T) {
	connected := Connected([]Token{weth, dai, usdc, wbtc})
	require.Equal(t, []Token{weth, usdc, wbtc}, connected)

	t.Run("empty query keeps order", func(t *testing.T) {
		require.Equal(t, []Token{weth, usdc, wbtc}, Filter(connected, ""))
	})

	t.Run("prefix on any field", func(t *testing.T) {
		require.Equal(t, []Token{weth, wbtc}, Filter(connected, "w"))
		require.Equal(t, []Token{usdc}, Filter(connected, "0xc"))
		require.Equal(t, []Token{usdc}, Filter(connected, "usd c"))
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		got := Filter(connected, "zzz")
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("no connected tokens", func(t *testing.T) {
		got := Filter(Connected([]Token{dai}), "")
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}

func TestDisconnectedNeverSuggested(t *testing.T) {
	connected := Connected([]Token{weth, dai, usdc})
	for _, q := range []string{"", "d", "DAI", "dai", "0xb", "0xBBB"} {
		for _, tok := range Filter(connected, q) {
			require.True(t, tok.Connected, "query %q suggested %s", q, tok.Symbol)
		}
	}
}

func TestSuggester(t *testing.T) {
	t.Run("filters as the user types", func(t *testing.T) {
		feed := &fixedSnapshot{list: Connected([]Token{weth, dai}), ready: true}
		s := NewSuggester(feed)

		list, ok := s.Refresh()
		require.True(t, ok)
		require.Equal(t, []Token{weth}, list)
		require.Equal(t, "", s.Query())

		list, ok = s.Input(Typing("w"))
		require.True(t, ok)
		require.Equal(t, []Token{weth}, list)
		require.Equal(t, list, s.Current())
	})

	t.Run("nothing before first snapshot", func(t *testing.T) {
		feed := &fixedSnapshot{}
		s := NewSuggester(feed)

		_, ok := s.Input(Typing("w"))
		require.False(t, ok)

		feed.list, feed.ready = []Token{weth, usdc}, true
		list, ok := s.Refresh()
		require.True(t, ok)
		require.Equal(t, []Token{weth}, list)
	})

	t.Run("selection interrupts", func(t *testing.T) {
		feed := &fixedSnapshot{list: []Token{weth, usdc}, ready: true}
		s := NewSuggester(feed)

		_, ok := s.Input(Typing("u"))
		require.True(t, ok)

		_, ok = s.Input(Selected(usdc))
		require.False(t, ok)
		require.Equal(t, Interrupted, s.State())

		_, ok = s.Input(Typing("w"))
		require.False(t, ok)
		_, ok = s.Refresh()
		require.False(t, ok)
		require.Equal(t, "u", s.Query())
	})

	t.Run("new session listens again", func(t *testing.T) {
		feed := &fixedSnapshot{list: []Token{weth}, ready: true}
		s := NewSuggester(feed)
		s.Input(Selected(weth))
		require.Equal(t, Interrupted, s.State())

		s = NewSuggester(feed)
		require.Equal(t, Listening, s.State())
		list, ok := s.Input(Typing("0x"))
		require.True(t, ok)
		require.Equal(t, []Token{weth}, list)
	})
}

func TestFieldValue(t *testing.T) {
	text, ok := Typing("we").Text()
	require.True(t, ok)
	require.Equal(t, "we", text)
	_, ok = Typing("we").Token()
	require.False(t, ok)

	tok, ok := Selected(weth).Token()
	require.True(t, ok)
	require.Equal(t, weth, tok)
	_, ok = Selected(weth).Text()
	require.False(t, ok)
	require.Equal(t, "WETH (Wrapped Ether)", Selected(weth).String())
}

// chanSource hands out a stream the test controls and records every call.
type chanSource struct {
	ch    chan []Token
	calls []bool
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan []Token)}
}

func (c *chanSource) FetchTokens(_ context.Context, refresh bool) <-chan []Token {
	c.calls = append(c.calls, refresh)
	return c.ch
}

func receive(t *testing.T, ch <-chan []Token) []Token {
	t.Helper()
	select {
	case list, ok := <-ch:
		require.True(t, ok, "channel closed")
		return list
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tokens")
	}
	return nil
}

func requireClosed(t *testing.T, ch <-chan []Token) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected channel to be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newChanSource()
	feed := NewFeed(ctx, src, nil)
	require.Equal(t, []bool{true}, src.calls)

	_, ok := feed.Snapshot()
	require.False(t, ok)

	first, cancelFirst := feed.Subscribe()
	second, cancelSecond := feed.Subscribe()
	defer cancelSecond()

	src.ch <- []Token{weth, dai, usdc}
	require.Equal(t, []Token{weth, usdc}, receive(t, first))
	require.Equal(t, []Token{weth, usdc}, receive(t, second))

	snapshot, ok := feed.Snapshot()
	require.True(t, ok)
	require.Equal(t, []Token{weth, usdc}, snapshot)

	late, cancelLate := feed.Subscribe()
	defer cancelLate()
	require.Equal(t, []Token{weth, usdc}, receive(t, late))

	cancelFirst()
	requireClosed(t, first)

	// a refresh reaches every remaining subscriber
	src.ch <- []Token{wbtc}
	require.Equal(t, []Token{wbtc}, receive(t, second))
	require.Equal(t, []Token{wbtc}, receive(t, late))
	require.Len(t, src.calls, 1)

	close(src.ch)
	requireClosed(t, second)
	requireClosed(t, late)
	select {
	case <-feed.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not finish")
	}

	ended, _ := feed.Subscribe()
	require.Equal(t, []Token{wbtc}, receive(t, ended))
	requireClosed(t, ended)
}

func TestFeedKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newChanSource()
	feed := NewFeed(ctx, src, nil)
	sub, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	src.ch <- []Token{weth}
	src.ch <- []Token{usdc}
	// the unbuffered source send returns before publish finishes
	require.Eventually(t, func() bool {
		s, _ := feed.Snapshot()
		return len(s) == 1 && s[0] == usdc
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, []Token{usdc}, receive(t, sub))
}

func TestStaticSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := Static([]Token{weth, dai}).FetchTokens(ctx, true)
	require.Equal(t, []Token{weth, dai}, receive(t, ch))
	cancel()
	requireClosed(t, ch)
}

func readyFeed(t *testing.T, ctx context.Context, list ...Token) *Feed {
	t.Helper()
	feed := NewFeed(ctx, Static(list), nil)
	require.Eventually(t, func() bool {
		_, ok := feed.Snapshot()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	return feed
}

func TestStream(t *testing.T) {
	t.Run("one emission per query in order", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		feed := readyFeed(t, ctx, weth, dai, usdc, wbtc)
		inputs := make(chan FieldValue, 4)
		out := Stream(ctx, feed, inputs)

		require.Equal(t, []Token{weth, usdc, wbtc}, receive(t, out))

		inputs <- Typing("w")
		inputs <- Typing("wb")
		inputs <- Typing("d")
		require.Equal(t, []Token{weth, wbtc}, receive(t, out))
		require.Equal(t, []Token{wbtc}, receive(t, out))
		require.Empty(t, receive(t, out))
	})

	t.Run("selection ends the stream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		feed := readyFeed(t, ctx, weth, usdc)
		inputs := make(chan FieldValue, 3)
		out := Stream(ctx, feed, inputs)
		receive(t, out)

		inputs <- Selected(weth)
		inputs <- Typing("u")
		requireClosed(t, out)
	})

	t.Run("upstream refresh re-emits current query", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		src := newChanSource()
		feed := NewFeed(ctx, src, nil)
		src.ch <- []Token{weth, usdc}
		require.Eventually(t, func() bool {
			_, ok := feed.Snapshot()
			return ok
		}, 2*time.Second, 10*time.Millisecond)

		inputs := make(chan FieldValue)
		out := Stream(ctx, feed, inputs)
		require.Equal(t, []Token{weth, usdc}, receive(t, out))

		inputs <- Typing("w")
		require.Equal(t, []Token{weth}, receive(t, out))

		src.ch <- []Token{weth, wbtc, usdc}
		require.Equal(t, []Token{weth, wbtc}, receive(t, out))

		close(src.ch)
		requireClosed(t, out)
	})

	t.Run("cancel closes output", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		feed := readyFeed(t, context.Background(), weth)
		out := Stream(ctx, feed, make(chan FieldValue))
		receive(t, out)
		cancel()
		requireClosed(t, out)
	})
}
