package main

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"raiden-channel-tui/channel"
	"raiden-channel-tui/config"
	"raiden-channel-tui/rpc"
	"raiden-channel-tui/styles"
	"raiden-channel-tui/tokens"
	"raiden-channel-tui/views/home"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	ctx    context.Context
	cancel context.CancelFunc

	activePage config.Page
	cfg        config.Config
	configPath string
	ownAddress string

	// rpc state
	rpcURL        string
	ethClient     *rpc.Client
	rpcConnected  bool
	rpcConnecting bool

	// token feed
	feed          *tokens.Feed
	feedCancel    context.CancelFunc
	feedGen       int
	connected     []tokens.Token
	tokensLoaded  bool
	tokensAt      time.Time
	tokenSource   string
	selectedToken int

	// open channel dialog; nil while closed
	dialog *openChannelDialog

	// accepted dialog results, newest last
	results    []channel.Result
	showResult bool

	// menus and forms
	homeForm       *huh.Form
	form           *huh.Form
	formKind       string // "token", "rpc"
	selectedRPCIdx int

	spin   spinner.Model
	status string

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logBuffer
	logViewport viewport.Model
}

// logBuffer collects log output. The token feed logs from its own goroutine,
// so access is serialised.
type logBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// newLogger creates the styled logger that writes into the log panel
func newLogger(w *logBuffer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.DebugLevel,
	})
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(styles.CMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2),
		Message:   lipgloss.NewStyle().Foreground(styles.CText),
		Key:       lipgloss.NewStyle().Foreground(styles.CAccent),
		Value:     lipgloss.NewStyle().Foreground(styles.CText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		},
	})
	return logger
}

// options are the command line overrides for newModel
type options struct {
	configPath string
	rpcURL     string
	ownAddress string
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model with configuration from disk
func newModel(opts options) model {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg := config.LoadOrCreate(configPath)

	// rpc URL: flag, then config, then environment
	rpcURL := strings.TrimSpace(opts.rpcURL)
	if rpcURL == "" {
		rpcURL = cfg.ActiveRPC()
	}
	if rpcURL == "" {
		rpcURL = strings.TrimSpace(os.Getenv("ETH_RPC_URL"))
		if rpcURL != "" && len(cfg.RPCURLs) == 0 {
			cfg.RPCURLs = []config.RPCUrl{{Name: "Default", URL: rpcURL, Active: true}}
		}
	}

	ownAddress := strings.TrimSpace(opts.ownAddress)
	if ownAddress == "" {
		ownAddress = cfg.OwnAddress
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	vp := viewport.New(0, 10) // resized on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().Foreground(styles.CText)

	buf := &logBuffer{}
	ctx, cancel := context.WithCancel(context.Background())

	m := model{
		ctx:         ctx,
		cancel:      cancel,
		activePage:  config.PageHome,
		cfg:         cfg,
		configPath:  configPath,
		ownAddress:  ownAddress,
		rpcURL:      rpcURL,
		spin:        sp,
		logEnabled:  cfg.Logger,
		logger:      newLogger(buf),
		logBuffer:   buf,
		logViewport: vp,
	}
	m.homeForm = home.CreateForm(&tempHomeChoice)

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	// the config registry serves until the chain source is connected
	cmds := []tea.Cmd{m.spin.Tick, m.startFeed()}
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL))
	}
	return tea.Batch(cmds...)
}

// openDialog starts a new open channel session
func (m *model) openDialog() {
	m.dialog = newOpenChannelDialog(m.ownAddress, m)
	if m.cfg.SettleTimeout > 0 {
		m.dialog.setSettleTimeout(m.cfg.SettleTimeout)
	}
	m.activePage = config.PageOpenChannel
	m.addLog("debug", "Open channel dialog shown")
}

// Snapshot returns the connected tokens last delivered to the update loop.
// The dialog reads it so a feed restart never leaves it on a stale feed.
func (m *model) Snapshot() ([]tokens.Token, bool) {
	return m.connected, m.tokensLoaded
}

// closeDialog drops the session and its suggestion state
func (m *model) closeDialog() {
	m.dialog = nil
	m.activePage = config.PageHome
	m.homeForm = home.CreateForm(&tempHomeChoice)
}

// textInputActive returns true if any text input is currently active
func (m *model) textInputActive() bool {
	return m.dialog != nil || m.form != nil
}
