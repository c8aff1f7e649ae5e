package main

import (
	"strconv"
	"strings"

	"raiden-channel-tui/channel"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/styles"
	"raiden-channel-tui/tokens"
	"raiden-channel-tui/views/openchannel"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- OPEN CHANNEL DIALOG --------------------

// dialog focus positions; the first four match channel.Fields
const (
	focusPartner = iota
	focusToken
	focusBalance
	focusTimeout
	focusAccept
)

type dialogOutcome int

const (
	dialogOpen dialogOutcome = iota
	dialogAccepted
	dialogDismissed
)

// openChannelDialog binds text inputs to a channel.Form and feeds the token
// input into a suggestion session
type openChannelDialog struct {
	form      *channel.Form
	suggester *tokens.Suggester

	inputs      [4]textinput.Model
	focus       int
	touched     [4]bool
	parseErr    [4]string
	suggestions []tokens.Token
	suggestIdx  int
	loaded      bool
	selected    *tokens.Token
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = limit
	in.Width = 48
	return in
}

// newOpenChannelDialog starts a dialog session. Every session has its own
// suggestion state; reopening the dialog is what resets it.
func newOpenChannelDialog(own string, feed tokens.Snapshotter) *openChannelDialog {
	d := &openChannelDialog{
		form:      channel.NewForm(own),
		suggester: tokens.NewSuggester(feed),
	}
	state := d.form.State()

	d.inputs[focusPartner] = newInput("› ", "0x… partner address", 42)
	d.inputs[focusToken] = newInput("› ", "name, symbol or address", 64)
	d.inputs[focusBalance] = newInput("› ", "0.0", 40)
	d.inputs[focusBalance].SetValue(state.Balance.String())
	d.inputs[focusTimeout] = newInput("› ", "blocks", 12)
	d.inputs[focusTimeout].SetValue(strconv.FormatInt(state.SettleTimeout, 10))
	d.inputs[focusPartner].Focus()

	d.refresh()
	return d
}

// setSettleTimeout overrides the default settle timeout
func (d *openChannelDialog) setSettleTimeout(v int64) {
	d.inputs[focusTimeout].SetValue(strconv.FormatInt(v, 10))
	d.form.SetSettleTimeout(v)
}

// refresh recomputes suggestions after the token feed changed
func (d *openChannelDialog) refresh() {
	if list, ok := d.suggester.Refresh(); ok {
		d.setSuggestions(list)
	}
}

func (d *openChannelDialog) setSuggestions(list []tokens.Token) {
	d.loaded = true
	d.suggestions = list
	if d.suggestIdx >= len(list) {
		d.suggestIdx = 0
	}
}

func (d *openChannelDialog) setFocus(i int) {
	if i < focusPartner {
		i = focusAccept
	}
	if i > focusAccept {
		i = focusPartner
	}
	for j := range d.inputs {
		if j == i {
			d.inputs[j].Focus()
		} else {
			d.inputs[j].Blur()
		}
	}
	d.focus = i
}

// Update handles a message while the dialog is shown
func (d *openChannelDialog) Update(msg tea.Msg) (tea.Cmd, dialogOutcome) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, dialogOpen
	}

	switch keyMsg.String() {
	case "esc":
		return nil, dialogDismissed
	case "tab", "ctrl+n":
		d.setFocus(d.focus + 1)
		return nil, dialogOpen
	case "shift+tab", "ctrl+p":
		d.setFocus(d.focus - 1)
		return nil, dialogOpen
	case "up", "down":
		if d.focus == focusToken && d.showSuggestions() {
			d.moveSuggestion(keyMsg.String())
			return nil, dialogOpen
		}
		if keyMsg.String() == "up" {
			d.setFocus(d.focus - 1)
		} else {
			d.setFocus(d.focus + 1)
		}
		return nil, dialogOpen
	case "enter":
		switch {
		case d.focus == focusAccept:
			if d.form.Valid() {
				return nil, dialogAccepted
			}
			return nil, dialogOpen
		case d.focus == focusToken && d.showSuggestions() && len(d.suggestions) > 0:
			d.selectToken(d.suggestions[d.suggestIdx])
		}
		d.setFocus(d.focus + 1)
		return nil, dialogOpen
	case "ctrl+v":
		if d.focus < focusAccept {
			if text, err := clipboard.ReadAll(); err == nil && text != "" {
				d.inputs[d.focus].SetValue(strings.TrimSpace(text))
				d.sync(d.focus)
			}
		}
		return nil, dialogOpen
	}

	if d.focus == focusAccept {
		return nil, dialogOpen
	}
	before := d.inputs[d.focus].Value()
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	if d.inputs[d.focus].Value() != before {
		d.sync(d.focus)
	}
	return cmd, dialogOpen
}

func (d *openChannelDialog) moveSuggestion(dir string) {
	if len(d.suggestions) == 0 {
		return
	}
	if dir == "up" {
		d.suggestIdx = (d.suggestIdx - 1 + len(d.suggestions)) % len(d.suggestions)
	} else {
		d.suggestIdx = (d.suggestIdx + 1) % len(d.suggestions)
	}
}

// selectToken commits a suggestion. This interrupts the suggestion session.
func (d *openChannelDialog) selectToken(t tokens.Token) {
	d.suggester.Input(tokens.Selected(t))
	d.selected = &t
	d.touched[focusToken] = true
	d.inputs[focusToken].SetValue(t.Label())
	d.form.SetToken(t.Address)
	d.syncBalance()
}

// sync copies input i into the form
func (d *openChannelDialog) sync(i int) {
	d.touched[i] = true
	value := d.inputs[i].Value()

	switch i {
	case focusPartner:
		d.form.SetPartner(strings.TrimSpace(value))
	case focusToken:
		// editing after a selection falls back to the raw text
		d.selected = nil
		d.form.SetToken(strings.TrimSpace(value))
		if list, ok := d.suggester.Input(tokens.Typing(value)); ok {
			d.suggestIdx = 0
			d.setSuggestions(list)
		}
		d.syncBalance()
	case focusBalance:
		d.syncBalance()
	case focusTimeout:
		d.parseErr[focusTimeout] = ""
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			d.parseErr[focusTimeout] = "whole number of blocks"
			v = 0
		}
		d.form.SetSettleTimeout(v)
	}
}

// syncBalance parses the balance input with the selected token's decimals
func (d *openChannelDialog) syncBalance() {
	var decimals uint8
	if d.selected != nil {
		decimals = d.selected.Decimals
	}
	d.parseErr[focusBalance] = ""
	v, err := helpers.ParseUnits(d.inputs[focusBalance].Value(), decimals)
	if err != nil {
		d.parseErr[focusBalance] = err.Error()
		v = nil
	}
	d.form.SetBalance(v)
}

func (d *openChannelDialog) showSuggestions() bool {
	return d.suggester.State() == tokens.Listening
}

func (d *openChannelDialog) fieldError(i int) string {
	if !d.touched[i] {
		return ""
	}
	if d.parseErr[i] != "" {
		return d.parseErr[i]
	}
	if err := d.form.Err(channel.Fields[i]); err != nil {
		return err.Error()
	}
	return ""
}

func (d *openChannelDialog) partnerHint() string {
	addr := strings.TrimSpace(d.inputs[focusPartner].Value())
	if !helpers.IsValidEthAddress(addr) {
		return ""
	}
	if checksummed := common.HexToAddress(addr).Hex(); checksummed != addr {
		return "checksum form: " + checksummed
	}
	return ""
}

func (d *openChannelDialog) balanceHint() string {
	if d.selected == nil {
		return "base units until a token is selected"
	}
	return helpers.FormatToken(d.form.State().Balance, d.selected.Decimals, d.selected.Symbol)
}

// Props converts the dialog state for rendering
func (d *openChannelDialog) Props(spinnerView string) openchannel.Props {
	labels := [4]string{"Partner address", "Token", "Balance", "Settle timeout (blocks)"}
	hints := [4]string{d.partnerHint(), "", d.balanceHint(), ""}

	fields := make([]openchannel.Field, 0, len(d.inputs))
	for i := range d.inputs {
		fields = append(fields, openchannel.Field{
			Label:   labels[i],
			Input:   d.inputs[i].View(),
			Hint:    hints[i],
			Error:   d.fieldError(i),
			Focused: d.focus == i,
		})
	}

	return openchannel.Props{
		OwnAddress:      d.form.OwnAddress(),
		Fields:          fields,
		TokenField:      focusToken,
		Suggestions:     d.suggestions,
		SuggestIdx:      d.suggestIdx,
		ShowSuggestions: d.focus == focusToken && d.showSuggestions(),
		Loading:         !d.loaded,
		Valid:           d.form.Valid(),
		AcceptFocused:   d.focus == focusAccept,
		SpinnerView:     spinnerView,
	}
}
