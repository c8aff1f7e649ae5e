package main

import (
	"context"
	"fmt"
	"time"

	"raiden-channel-tui/config"
	"raiden-channel-tui/rpc"
	"raiden-channel-tui/tokens"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, url: url, err: result.Error}
	}
}

// waitForTokens blocks on a feed subscription and delivers the next snapshot
func waitForTokens(gen int, updates <-chan []tokens.Token) tea.Cmd {
	return func() tea.Msg {
		list, ok := <-updates
		if !ok {
			return feedClosedMsg{gen: gen}
		}
		return tokensUpdatedMsg{gen: gen, tokens: list, updates: updates}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return nil
		}
		return clipboardCopiedMsg{}
	}
}

// clearStatusAfter waits then clears the status line
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry of the given type
func (m *model) addLog(logType, message string, keyvals ...interface{}) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// startFeed replaces the token feed. With an RPC client tokens are read from
// the chain, otherwise the config registry is used as is.
func (m *model) startFeed() tea.Cmd {
	if m.feedCancel != nil {
		m.feedCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.feedCancel = cancel
	m.feedGen++
	m.tokensLoaded = false

	var src tokens.Source
	if m.ethClient != nil {
		src = rpc.NewTokenSource(m.ethClient, m.cfg.TokenList(), m.cfg.Refresh(), m.logger)
		m.tokenSource = "chain (" + m.ethClient.URL + ")"
	} else {
		src = tokens.Static(m.cfg.TokenList())
		m.tokenSource = "config"
	}
	m.feed = tokens.NewFeed(ctx, src, m.logger)
	m.addLog("info", "Token feed started", "source", m.tokenSource, "registered", len(m.cfg.Tokens))

	updates, _ := m.feed.Subscribe()
	return waitForTokens(m.feedGen, updates)
}

// saveConfig persists the config and logs failures
func (m *model) saveConfig() {
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", fmt.Sprintf("Saving config failed: %v", err))
	}
}

// setStatus shows a transient message under the page
func (m *model) setStatus(s string) tea.Cmd {
	m.status = s
	return clearStatusAfter(3 * time.Second)
}
