package main

import (
	"raiden-channel-tui/rpc"
	"raiden-channel-tui/tokens"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates the dialog result was copied to the clipboard
type clipboardCopiedMsg struct{}

// clearStatusMsg clears the transient status line
type clearStatusMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	url    string
	err    error
}

// tokensUpdatedMsg carries a new connected-token snapshot from the feed.
// gen identifies the feed it came from so updates of a replaced feed are dropped.
type tokensUpdatedMsg struct {
	gen     int
	tokens  []tokens.Token
	updates <-chan []tokens.Token
}

// feedClosedMsg signals the token feed has ended
type feedClosedMsg struct {
	gen int
}
