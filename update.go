package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"raiden-channel-tui/config"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/views/home"
	logview "raiden-channel-tui/views/log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempHomeChoice     string
	tempRPCFormName    string
	tempRPCFormURL     string
	tempTokenAddress   string
	tempTokenName      string
	tempTokenSymbol    string
	tempTokenDecimals  string
	tempTokenConnected bool
)

func (m *model) createAddTokenForm() {
	tempTokenAddress = ""
	tempTokenName = ""
	tempTokenSymbol = ""
	tempTokenDecimals = "18"
	tempTokenConnected = true

	m.formKind = "token"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Token Address").
				Description("ERC20 contract address (Ctrl+v to paste)").
				Value(&tempTokenAddress).
				Placeholder("0x...").
				Validate(func(s string) error {
					if !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Symbol").
				Description("Used when the contract cannot be queried").
				Value(&tempTokenSymbol).
				Placeholder("WETH"),

			huh.NewInput().
				Title("Name").
				Value(&tempTokenName).
				Placeholder("Wrapped Ether"),

			huh.NewInput().
				Title("Decimals").
				Value(&tempTokenDecimals).
				Validate(func(s string) error {
					if _, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8); err != nil {
						return fmt.Errorf("decimals must be 0-255")
					}
					return nil
				}),

			huh.NewConfirm().
				Title("Connected?").
				Description("Only connected token networks are offered when opening a channel").
				Value(&tempTokenConnected),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.formKind = "rpc"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("My Infura Node"),

			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (https://... or wss://...)").
				Value(&tempRPCFormURL).
				Placeholder("https://mainnet.infura.io/v3/...").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					for _, scheme := range []string{"http://", "https://", "ws://", "wss://"} {
						if strings.HasPrefix(s, scheme) {
							return nil
						}
					}
					return fmt.Errorf("url must start with http(s):// or ws(s)://")
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// -------------------- UPDATE --------------------

// Update implements tea.Model interface and handles all messages
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		// Width accounts for border and padding
		m.logViewport.Width = helpers.Max(0, msg.Width-6)
		m.logViewport.Height = logview.Height(msg.Height)
		m.updateLogViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case rpcConnectedMsg:
		if msg.url != m.rpcURL {
			// a newer endpoint was activated in the meantime
			if msg.client != nil {
				msg.client.Close()
			}
			return m, nil
		}
		m.rpcConnecting = false
		old := m.ethClient
		if msg.err != nil {
			m.ethClient = nil
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			if old == nil {
				return m, nil
			}
			// fall back to the config registry
			cmd := m.startFeed()
			old.Close()
			return m, cmd
		}
		m.ethClient = msg.client
		m.rpcConnected = true
		m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL))
		cmd := m.startFeed()
		if old != nil {
			old.Close()
		}
		return m, cmd

	case tokensUpdatedMsg:
		if msg.gen != m.feedGen {
			return m, nil
		}
		m.connected = msg.tokens
		m.tokensLoaded = true
		m.tokensAt = time.Now()
		if m.selectedToken >= len(m.connected) {
			m.selectedToken = helpers.Max(0, len(m.connected)-1)
		}
		if m.dialog != nil {
			m.dialog.refresh()
		}
		m.addLog("debug", "Connected tokens updated", "count", len(msg.tokens))
		return m, waitForTokens(msg.gen, msg.updates)

	case feedClosedMsg:
		if msg.gen == m.feedGen {
			m.addLog("debug", "Token feed closed")
		}
		return m, nil

	case clipboardCopiedMsg:
		m.addLog("info", "Copied channel parameters to clipboard")
		return m, m.setStatus("Copied to clipboard")

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateForms(msg)
}

// updateForms forwards messages the update loop does not handle itself
func (m *model) updateForms(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateAddForm(msg)
	}
	if m.activePage == config.PageHome && m.homeForm != nil {
		return m.updateHome(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// result panel takes all keys while shown
	if m.showResult {
		switch msg.String() {
		case "c", "C":
			if len(m.results) > 0 {
				return m, copyToClipboard(m.results[len(m.results)-1].JSON())
			}
		case "esc", "enter":
			m.showResult = false
		}
		return m, nil
	}

	if m.dialog != nil {
		cmd, outcome := m.dialog.Update(msg)
		switch outcome {
		case dialogAccepted:
			result := m.dialog.form.Accept()
			m.results = append(m.results, result)
			m.showResult = true
			m.addLog("success", "Channel parameters accepted",
				"partner", helpers.ShortenAddr(result.PartnerAddress),
				"token", helpers.ShortenAddr(result.TokenAddress),
				"balance", result.Balance.String(),
				"settle_timeout", result.SettleTimeout)
			m.closeDialog()
		case dialogDismissed:
			m.addLog("debug", "Open channel dialog dismissed")
			m.closeDialog()
		}
		return m, cmd
	}

	if m.form != nil {
		return m.updateAddForm(msg)
	}

	// global keys
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "l", "L":
		m.logEnabled = !m.logEnabled
		if m.logEnabled {
			m.updateLogViewport()
		}
		m.saveConfig()
		return m, nil

	case "pageup", "pagedown":
		if m.logEnabled {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}

	case "o", "O":
		m.openDialog()
		return m, nil
	}

	// page-specific behavior
	switch m.activePage {

	case config.PageHome:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m.updateHome(msg)

	case config.PageTokens:
		switch msg.String() {
		case "up", "k":
			if m.selectedToken > 0 {
				m.selectedToken--
			}
		case "down", "j":
			if m.selectedToken < len(m.connected)-1 {
				m.selectedToken++
			}
		case "a", "A":
			m.createAddTokenForm()
		case "h", "H", "esc":
			m.goHome()
		}
		return m, nil

	case config.PageSettings:
		switch msg.String() {
		case "up", "k":
			if m.selectedRPCIdx > 0 {
				m.selectedRPCIdx--
			}
		case "down", "j":
			if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
				m.selectedRPCIdx++
			}
		case "a", "A":
			m.createAddRPCForm()
		case "enter", " ":
			if m.selectedRPCIdx < len(m.cfg.RPCURLs) {
				return m, m.activateRPC(m.selectedRPCIdx)
			}
		case "h", "H", "esc":
			m.goHome()
		}
		return m, nil
	}

	return m, nil
}

// updateHome drives the home menu and navigates on completion
func (m *model) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.homeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.homeForm = f
	}
	if m.homeForm.State != huh.StateCompleted {
		return m, cmd
	}

	choice := tempHomeChoice
	m.homeForm = home.CreateForm(&tempHomeChoice)
	switch choice {
	case home.ChoiceOpenChannel:
		m.openDialog()
	case home.ChoiceTokens:
		m.activePage = config.PageTokens
	case home.ChoiceSettings:
		m.activePage = config.PageSettings
	case home.ChoiceQuit:
		return m, tea.Quit
	}
	return m, nil
}

// updateAddForm drives the token and RPC forms
func (m *model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Intercept ESC key to cancel form
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		kind := m.formKind
		m.form = nil
		if kind == "token" {
			return m, m.addToken()
		}
		m.addRPC()
		return m, nil
	}
	return m, cmd
}

func (m *model) addToken() tea.Cmd {
	decimals, _ := strconv.ParseUint(strings.TrimSpace(tempTokenDecimals), 10, 8)
	entry := config.TokenEntry{
		Address:   strings.TrimSpace(tempTokenAddress),
		Name:      strings.TrimSpace(tempTokenName),
		Symbol:    strings.TrimSpace(tempTokenSymbol),
		Decimals:  uint8(decimals),
		Connected: tempTokenConnected,
	}
	if err := m.cfg.AddToken(entry); err != nil {
		m.addLog("error", err.Error())
		return m.setStatus(err.Error())
	}
	m.saveConfig()
	m.addLog("success", fmt.Sprintf("Registered token `%s`", helpers.ShortenAddr(entry.Address)), "connected", entry.Connected)
	// the feed reads the registry once, so it is rebuilt
	return m.startFeed()
}

func (m *model) addRPC() {
	name := strings.TrimSpace(tempRPCFormName)
	url := strings.TrimSpace(tempRPCFormURL)
	if name == "" {
		name = url
	}
	m.cfg.RPCURLs = append(m.cfg.RPCURLs, config.RPCUrl{Name: name, URL: url})
	m.selectedRPCIdx = len(m.cfg.RPCURLs) - 1
	m.saveConfig()
	m.addLog("success", fmt.Sprintf("Added RPC endpoint `%s`", name))
}

// activateRPC makes the endpoint at idx active and reconnects
func (m *model) activateRPC(idx int) tea.Cmd {
	m.cfg.Activate(idx)
	m.rpcURL = m.cfg.RPCURLs[idx].URL
	m.saveConfig()
	m.rpcConnecting = true
	m.rpcConnected = false
	m.addLog("info", fmt.Sprintf("Connecting to `%s`", m.rpcURL))
	return connectRPC(m.rpcURL)
}

func (m *model) goHome() {
	m.activePage = config.PageHome
	m.homeForm = home.CreateForm(&tempHomeChoice)
}
