package main

import (
	"strings"

	"raiden-channel-tui/config"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/rpc"
	"raiden-channel-tui/styles"
	"raiden-channel-tui/views/home"
	logview "raiden-channel-tui/views/log"
	"raiden-channel-tui/views/openchannel"
	"raiden-channel-tui/views/settings"
	tokenview "raiden-channel-tui/views/tokens"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) renderResultContent() string {
	if len(m.results) == 0 {
		return ""
	}
	result := m.results[len(m.results)-1]
	data := result.JSON()

	content := styles.TitleStyle.Render("Channel Ready To Open") + "\n\n"
	content += rpc.GenerateQRCode(data) + "\n"
	content += lipgloss.NewStyle().Foreground(styles.CAccent).Render("Channel parameters:") + "\n\n"
	content += data
	content += "\n\n" + styles.MutedStyle.Render(
		"Balance is in base units of "+helpers.ShortenAddr(result.TokenAddress))
	content += "\n" + styles.MutedStyle.Render("Press c to copy • Press ESC or Enter to close")

	if m.status != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(m.status)
	}
	return content
}

func (m *model) renderResultPanel() string {
	contentWidth := helpers.Max(0, m.w-8)
	centered := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(m.renderResultContent())
	content := styles.PanelStyle.Width(helpers.Max(0, m.w-4)).Render(centered)
	return styles.AppStyle.Render(lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		content,
	))
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if m.ownAddress != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(styles.CAccent2).
			Bold(true).
			Render("Node: " + helpers.FadeString(helpers.ShortenAddr(m.ownAddress), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render("Node: no address")
	}

	// RPC status with colored dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	switch {
	case m.rpcURL == "":
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	case m.rpcConnecting:
		statusIcon = "○"
		statusColor = styles.CWarn
		statusText = "Connecting..."
	case !m.rpcConnected:
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	default:
		statusIcon = "●"
		statusColor = styles.CAccent
		for _, r := range m.cfg.RPCURLs {
			if r.Active && r.URL == m.rpcURL {
				statusText = r.Name
				break
			}
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(styles.CAccent).
		Bold(true).
		Render(helpers.FadeString("raiden channels", "#7EE787", "#82CFFD"))

	totalOtherWidth := lipgloss.Width(addrDisplay) + lipgloss.Width(rpcDisplay) + lipgloss.Width(titleText)

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Address | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = addrDisplay +
			strings.Repeat(" ", helpers.Max(1, leftPadding)) +
			titleText +
			strings.Repeat(" ", helpers.Max(1, rightPadding)) +
			rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// rpcStatus describes the active endpoint for the settings page
func (m *model) rpcStatus() string {
	switch {
	case m.rpcURL == "":
		return "not set"
	case m.rpcConnecting:
		return "connecting"
	case m.ethClient == nil:
		return "failed"
	}
	return "connected"
}

// View implements tea.Model interface and renders the UI
func (m *model) View() string {
	if m.showResult {
		return m.renderResultPanel()
	}

	headerPanel := styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(m.globalHeader())

	var logPanel string
	if m.logEnabled {
		logPanel = logview.Render(m.w, m.h, m.logViewport)
	}

	var pageContent, nav string

	switch {
	case m.dialog != nil:
		nav = openchannel.Nav(m.w)
		height := m.h - lipgloss.Height(headerPanel) - lipgloss.Height(nav)
		if logPanel != "" {
			height -= lipgloss.Height(logPanel)
		}
		pageContent = openchannel.Render(m.w, helpers.Max(0, height), m.dialog.Props(m.spin.View()))

	case m.activePage == config.PageTokens:
		body := tokenview.Render(m.connected, m.selectedToken, m.tokensLoaded, m.tokenSource)
		if m.form != nil {
			body = styles.TitleStyle.Render("Register Token") + "\n\n" + m.form.View()
		}
		if m.status != "" {
			body += "\n" + styles.ErrorStyle.Render(m.status)
		}
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(body)
		nav = tokenview.Nav(m.w, m.form != nil)

	case m.activePage == config.PageSettings:
		body := settings.Render(m.cfg.RPCURLs, m.selectedRPCIdx, m.rpcStatus())
		if m.form != nil {
			body = styles.TitleStyle.Render("Add RPC Endpoint") + "\n\n" + m.form.View()
		}
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(body)
		nav = settings.Nav(m.w, m.form != nil)

	default:
		body := home.Render(m.homeForm)
		if !m.tokensLoaded {
			body += "\n" + m.spin.View() + styles.MutedStyle.Render(" loading token networks…")
		} else {
			body += "\n" + styles.MutedStyle.Render(
				"Tokens updated "+helpers.LoadedAt(m.tokensAt, false)+" · "+tokenview.Summary(m.connected))
		}
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(body)
		nav = home.Nav(m.w)
	}

	sections := []string{headerPanel, pageContent, nav}
	if logPanel != "" {
		sections = append(sections, logPanel)
	}
	return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
