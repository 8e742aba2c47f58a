package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-bankroll-sync/internal/adapter"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

const statusTTL = 3 * time.Second

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

type inspectorModel struct {
	ctx     context.Context
	adapter adapter.SyncAdapter
	logger  *logger.Logger

	spinner spinner.Model
	help    help.Model

	buildInfo     models.AppBuildInfo
	showBuildInfo bool

	serverVersion string
	watermark     *int64
	last          *models.PullResponse
	lastFull      bool
	pulls         int

	loading bool
	status  string
	errMsg  string
}

func newInspectorModel(ctx context.Context, syncAdapter adapter.SyncAdapter, buildInfo models.AppBuildInfo, logger *logger.Logger) inspectorModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return inspectorModel{
		ctx:       ctx,
		adapter:   syncAdapter,
		logger:    logger,
		spinner:   s,
		help:      help.New(),
		buildInfo: buildInfo,
		loading:   true,
	}
}

func (m inspectorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdVersion(), m.cmdPull(nil, true))
}

func (m inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case pullDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeSyncError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		resp := msg.resp
		m.last = &resp
		m.lastFull = msg.full
		m.watermark = &resp.Timestamp
		m.pulls++
		return m, nil

	case versionMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Str("func", "inspectorModel.Update").Msg("version request failed")
			return m, nil
		}
		m.serverVersion = msg.version
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = "watermark copied"
		return m, clearStatusAfter(statusTTL)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m inspectorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		return m, tea.Quit
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc, keys.buildInfo) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.buildInfo):
		m.showBuildInfo = true
	case key.Matches(msg, keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.pull):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.cmdPull(m.watermark, m.watermark == nil))
	case key.Matches(msg, keys.fullPull):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.cmdPull(nil, true))
	case key.Matches(msg, keys.copy):
		if m.watermark == nil {
			m.errMsg = "nothing pulled yet"
			return m, nil
		}
		return m, cmdCopy(strconv.FormatInt(*m.watermark, 10))
	case key.Matches(msg, keys.esc):
		m.errMsg = ""
	}

	return m, nil
}

func (m inspectorModel) cmdPull(since *int64, full bool) tea.Cmd {
	var watermark *int64
	if since != nil {
		v := *since
		watermark = &v
	}

	return func() tea.Msg {
		resp, err := m.adapter.Pull(m.ctx, watermark)
		return pullDoneMsg{resp: resp, full: full, err: err}
	}
}

func (m inspectorModel) cmdVersion() tea.Cmd {
	return func() tea.Msg {
		v, err := m.adapter.Version(m.ctx)
		return versionMsg{version: v, err: err}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m inspectorModel) View() string {
	if m.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(m.buildInfo, m.serverVersion))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Server:     %s\n", valueOrNA(m.serverVersion))
	fmt.Fprintf(&b, "User:       %d\n", m.adapter.UserID())
	fmt.Fprintf(&b, "Watermark:  %s\n", formatWatermark(m.watermark))
	fmt.Fprintf(&b, "Pulls:      %d\n", m.pulls)

	if m.last != nil {
		mode := "incremental"
		if m.lastFull {
			mode = "full"
		}
		fmt.Fprintf(&b, "Last pull:  %s\n\n", mode)
		b.WriteString(renderChangeTable(m.last.Changes))
	}

	switch {
	case m.loading:
		b.WriteString("\n" + m.spinner.View() + " pulling...")
	case m.errMsg != "":
		b.WriteString("\n" + errorStyle.Render(m.errMsg))
	case m.status != "":
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	page := renderPage(titleStyle.Render("BANKROLL SYNC INSPECTOR"), b.String(), helpStyle.Render(m.help.View(keys)))
	return appStyle.Render(page)
}

func formatWatermark(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return fmt.Sprintf("%d (%s)", *ms, models.FromMillis(*ms).Format(time.RFC3339))
}

// renderChangeTable lists created/updated/deleted counts per collection in
// pull order.
func renderChangeTable(cs models.ChangeSet) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %8s %8s %8s", "collection", "created", "updated", "deleted")))
	b.WriteString("\n")
	for _, c := range models.Collections {
		ch := cs[c]
		fmt.Fprintf(&b, "%-14s %8d %8d %8d\n", c, len(ch.Created), len(ch.Updated), len(ch.Deleted))
	}
	return b.String()
}
