package tokens

import (
	"context"
	"strings"
)

// Token represents a token known to the token network registry
type Token struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Decimals  uint8  `json:"decimals"`
	Connected bool   `json:"connected"` // usable for opening channels right now
}

// Source supplies token snapshots. A source may re-emit whenever it refreshes.
// The returned channel is closed once ctx is done or the source gives up.
// Fetch failures are the source's concern: it simply does not emit.
type Source interface {
	FetchTokens(ctx context.Context, refresh bool) <-chan []Token
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context, refresh bool) <-chan []Token

func (f SourceFunc) FetchTokens(ctx context.Context, refresh bool) <-chan []Token {
	return f(ctx, refresh)
}

// Static returns a source that emits list once and closes when ctx is done.
func Static(list []Token) Source {
	return SourceFunc(func(ctx context.Context, _ bool) <-chan []Token {
		ch := make(chan []Token, 1)
		ch <- append([]Token(nil), list...)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	})
}

// Connected keeps only the tokens currently usable for channel opening,
// preserving their order.
func Connected(ts []Token) []Token {
	out := make([]Token, 0, len(ts))
	for _, t := range ts {
		if t.Connected {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether the name, symbol or address of t starts with query,
// ignoring case.
func Matches(t Token, query string) bool {
	q := strings.ToLower(query)
	return strings.HasPrefix(strings.ToLower(t.Name), q) ||
		strings.HasPrefix(strings.ToLower(t.Symbol), q) ||
		strings.HasPrefix(strings.ToLower(t.Address), q)
}

// Filter returns the tokens matching query in input order.
// The result is never nil.
func Filter(ts []Token, query string) []Token {
	out := make([]Token, 0, len(ts))
	for _, t := range ts {
		if Matches(t, query) {
			out = append(out, t)
		}
	}
	return out
}

// Label is the display text for a selected token
func (t Token) Label() string {
	switch {
	case t.Symbol != "" && t.Name != "":
		return t.Symbol + " (" + t.Name + ")"
	case t.Symbol != "":
		return t.Symbol
	case t.Name != "":
		return t.Name
	}
	return t.Address
}
