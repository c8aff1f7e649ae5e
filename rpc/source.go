package rpc

import (
	"context"
	"io"
	"time"

	"raiden-channel-tui/tokens"

	"github.com/charmbracelet/log"
)

// TokenSource reads the registered tokens from the chain. With refresh
// requested it keeps polling and re-emits every successful read.
type TokenSource struct {
	client   *Client
	registry []tokens.Token
	interval time.Duration
	timeout  time.Duration
	logger   *log.Logger
}

// NewTokenSource creates a source for the given registry entries
func NewTokenSource(client *Client, registry []tokens.Token, interval time.Duration, logger *log.Logger) *TokenSource {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TokenSource{
		client:   client,
		registry: registry,
		interval: interval,
		timeout:  12 * time.Second,
		logger:   logger,
	}
}

// FetchTokens implements tokens.Source. Failed reads are logged and skipped.
func (s *TokenSource) FetchTokens(ctx context.Context, refresh bool) <-chan []tokens.Token {
	out := make(chan []tokens.Token)

	go func() {
		defer close(out)

		s.emit(ctx, out)
		if !refresh || s.interval <= 0 {
			<-ctx.Done()
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.emit(ctx, out)
			}
		}
	}()

	return out
}

// emit loads the registry once and sends it. It returns false if nothing was sent.
func (s *TokenSource) emit(ctx context.Context, out chan<- []tokens.Token) bool {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := LoadTokens(loadCtx, s.client, s.registry)
	if err != nil {
		s.logger.Error("token refresh failed", "err", err)
		return false
	}
	s.logger.Debug("tokens loaded", "count", len(list))

	select {
	case out <- list:
		return true
	case <-ctx.Done():
		return false
	}
}
