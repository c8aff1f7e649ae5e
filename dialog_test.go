package main

import (
	"math/big"
	"path/filepath"
	"testing"

	"raiden-channel-tui/channel"
	"raiden-channel-tui/tokens"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const (
	ownAddr     = "0x1111111111111111111111111111111111111111"
	partnerAddr = "0x2222222222222222222222222222222222222222"
)

var (
	weth = tokens.Token{Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18, Connected: true}
	dai  = tokens.Token{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18, Connected: true}
	usdc = tokens.Token{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Name: "USD Coin", Symbol: "USDC", Decimals: 6, Connected: true}
)

type fixedFeed struct {
	list  []tokens.Token
	ready bool
}

func (f *fixedFeed) Snapshot() ([]tokens.Token, bool) {
	return f.list, f.ready
}

func typeText(d *openChannelDialog, s string) dialogOutcome {
	_, out := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return out
}

func press(d *openChannelDialog, k tea.KeyType) dialogOutcome {
	_, out := d.Update(tea.KeyMsg{Type: k})
	return out
}

func TestDialogDefaults(t *testing.T) {
	feed := &fixedFeed{list: []tokens.Token{weth, dai, usdc}, ready: true}
	d := newOpenChannelDialog(ownAddr, feed)

	state := d.form.State()
	require.Equal(t, int64(0), state.Balance.Int64())
	require.Equal(t, channel.DefaultSettleTimeout, state.SettleTimeout)
	require.Equal(t, "0", d.inputs[focusBalance].Value())
	require.Equal(t, "500", d.inputs[focusTimeout].Value())
	require.Equal(t, focusPartner, d.focus)

	// seeded with the empty query
	require.True(t, d.loaded)
	require.Equal(t, []tokens.Token{weth, dai, usdc}, d.suggestions)
	require.False(t, d.form.Valid())

	// untouched fields show no errors
	for i := range d.inputs {
		require.Empty(t, d.fieldError(i))
	}
}

func TestDialogLoadingUntilSnapshot(t *testing.T) {
	feed := &fixedFeed{}
	d := newOpenChannelDialog(ownAddr, feed)
	require.True(t, d.Props("").Loading)

	feed.list, feed.ready = []tokens.Token{weth, dai}, true
	d.refresh()
	require.False(t, d.Props("").Loading)
	require.Equal(t, []tokens.Token{weth, dai}, d.suggestions)
}

func TestDialogSuggestionsFollowTyping(t *testing.T) {
	feed := &fixedFeed{list: []tokens.Token{weth, dai, usdc}, ready: true}
	d := newOpenChannelDialog(ownAddr, feed)

	press(d, tea.KeyTab)
	require.Equal(t, focusToken, d.focus)
	require.True(t, d.Props("").ShowSuggestions)

	typeText(d, "d")
	require.Equal(t, []tokens.Token{dai}, d.suggestions)
	// raw text is the token value until something is selected
	require.Equal(t, "d", d.form.State().TokenAddress)

	// upstream change recomputes the current query
	more := tokens.Token{Address: "0x3333333333333333333333333333333333333333", Name: "Dogecoin", Symbol: "DOGE", Connected: true}
	feed.list = []tokens.Token{weth, dai, usdc, more}
	d.refresh()
	require.Equal(t, []tokens.Token{dai, more}, d.suggestions)

	press(d, tea.KeyDown)
	require.Equal(t, 1, d.suggestIdx)
	require.Equal(t, focusToken, d.focus)
	press(d, tea.KeyDown)
	require.Equal(t, 0, d.suggestIdx)
}

func TestDialogSelectionEndsSuggestions(t *testing.T) {
	feed := &fixedFeed{list: []tokens.Token{weth, dai, usdc}, ready: true}
	d := newOpenChannelDialog(ownAddr, feed)

	press(d, tea.KeyTab)
	typeText(d, "us")
	require.Equal(t, []tokens.Token{usdc}, d.suggestions)

	press(d, tea.KeyEnter)
	require.Equal(t, focusBalance, d.focus)
	require.Equal(t, usdc.Address, d.form.State().TokenAddress)
	require.Equal(t, tokens.Interrupted, d.suggester.State())
	require.Equal(t, usdc.Label(), d.inputs[focusToken].Value())

	// further edits and upstream changes produce nothing
	press(d, tea.KeyShiftTab)
	typeText(d, "x")
	require.Equal(t, []tokens.Token{usdc}, d.suggestions)
	require.False(t, d.Props("").ShowSuggestions)

	feed.list = []tokens.Token{weth}
	d.refresh()
	require.Equal(t, []tokens.Token{usdc}, d.suggestions)

	// a new dialog session suggests again
	d = newOpenChannelDialog(ownAddr, feed)
	require.Equal(t, []tokens.Token{weth}, d.suggestions)
	require.Equal(t, tokens.Listening, d.suggester.State())
}

func TestDialogAccept(t *testing.T) {
	feed := &fixedFeed{list: []tokens.Token{weth, dai, usdc}, ready: true}
	d := newOpenChannelDialog(ownAddr, feed)

	typeText(d, partnerAddr)
	press(d, tea.KeyTab)
	typeText(d, "weth")
	press(d, tea.KeyEnter)
	require.Equal(t, focusBalance, d.focus)

	press(d, tea.KeyBackspace)
	typeText(d, "1.5")
	press(d, tea.KeyTab)
	require.Equal(t, focusTimeout, d.focus)
	press(d, tea.KeyTab)
	require.Equal(t, focusAccept, d.focus)

	require.True(t, d.form.Valid())
	require.Equal(t, dialogAccepted, press(d, tea.KeyEnter))

	result := d.form.Accept()
	require.Equal(t, partnerAddr, result.PartnerAddress)
	require.Equal(t, weth.Address, result.TokenAddress)
	require.Equal(t, int64(500), result.SettleTimeout)
	want, _ := new(big.Int).SetString("1500000000000000000", 10)
	require.Equal(t, 0, want.Cmp(result.Balance))
}

func TestDialogOwnAddressBlocksAccept(t *testing.T) {
	feed := &fixedFeed{list: []tokens.Token{weth}, ready: true}
	d := newOpenChannelDialog(ownAddr, feed)

	typeText(d, ownAddr)
	require.Equal(t, channel.ErrOwnAddress.Error(), d.fieldError(focusPartner))

	press(d, tea.KeyTab)
	press(d, tea.KeyEnter) // selects WETH
	press(d, tea.KeyBackspace)
	typeText(d, "2")
	d.setFocus(focusAccept)

	require.False(t, d.form.Valid())
	require.Equal(t, dialogOpen, press(d, tea.KeyEnter))
	require.False(t, d.Props("").Valid)
}

func TestDialogFieldErrors(t *testing.T) {
	d := newOpenChannelDialog(ownAddr, &fixedFeed{ready: true})

	d.setFocus(focusBalance)
	press(d, tea.KeyBackspace)
	typeText(d, "abc")
	require.NotEmpty(t, d.fieldError(focusBalance))
	require.Nil(t, d.form.State().Balance)

	press(d, tea.KeyBackspace)
	press(d, tea.KeyBackspace)
	press(d, tea.KeyBackspace)
	typeText(d, "0")
	require.Equal(t, channel.ErrInvalidAmount.Error(), d.fieldError(focusBalance))

	d.setFocus(focusTimeout)
	typeText(d, "x")
	require.Equal(t, "whole number of blocks", d.fieldError(focusTimeout))
	require.Equal(t, int64(0), d.form.State().SettleTimeout)
}

func TestDialogEscDismisses(t *testing.T) {
	d := newOpenChannelDialog(ownAddr, &fixedFeed{})
	require.Equal(t, dialogDismissed, press(d, tea.KeyEsc))
}

func TestDialogFocusWraps(t *testing.T) {
	d := newOpenChannelDialog(ownAddr, &fixedFeed{})
	press(d, tea.KeyShiftTab)
	require.Equal(t, focusAccept, d.focus)
	press(d, tea.KeyTab)
	require.Equal(t, focusPartner, d.focus)
	require.True(t, d.inputs[focusPartner].Focused())
}

func testModel(t *testing.T) *model {
	t.Helper()
	m := newModel(options{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		ownAddress: ownAddr,
	})
	t.Cleanup(m.cancel)
	return &m
}

func TestModelAcceptStoresResult(t *testing.T) {
	m := testModel(t)
	m.connected = []tokens.Token{weth, dai}
	m.tokensLoaded = true

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, m.dialog)
	require.Equal(t, []tokens.Token{weth, dai}, m.dialog.suggestions)

	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune(partnerAddr)},
		{Type: tea.KeyTab},
		{Type: tea.KeyRunes, Runes: []rune("dai")},
		{Type: tea.KeyEnter},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyRunes, Runes: []rune("10")},
		{Type: tea.KeyTab},
		{Type: tea.KeyTab},
		{Type: tea.KeyEnter},
	}
	for _, k := range keys {
		m.Update(k)
	}

	require.Nil(t, m.dialog)
	require.True(t, m.showResult)
	require.Len(t, m.results, 1)
	require.Equal(t, dai.Address, m.results[0].TokenAddress)
	require.Equal(t, partnerAddr, m.results[0].PartnerAddress)
	require.Contains(t, m.View(), "Channel Ready To Open")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.showResult)
}

func TestModelDropsStaleTokenUpdates(t *testing.T) {
	m := testModel(t)
	m.feedGen = 2
	m.openDialog()

	m.Update(tokensUpdatedMsg{gen: 1, tokens: []tokens.Token{weth}})
	require.False(t, m.tokensLoaded)
	require.True(t, m.dialog.Props("").Loading)

	m.Update(tokensUpdatedMsg{gen: 2, tokens: []tokens.Token{dai}})
	require.True(t, m.tokensLoaded)
	require.Equal(t, []tokens.Token{dai}, m.dialog.suggestions)
}
