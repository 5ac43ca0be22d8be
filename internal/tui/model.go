// Package tui provides the BubbleTea-based theme browser.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/syntheme/internal/config"
	"github.com/jmylchreest/syntheme/internal/preview"
	"github.com/jmylchreest/syntheme/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModePreview
	ModeSearch
	ModeRename
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	// Configuration
	ctx     context.Context
	cfg     *config.Config
	manager *theme.Manager
	palette theme.SystemPalette

	// Current mode
	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	renameInput textinput.Model
	help        help.Model

	// State
	infos          []theme.ThemeInfo
	selected       string
	renaming       string
	searchQuery    string
	showInvisibles bool
	width          int
	height         int
	ready          bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool

	// Manager change subscription
	events <-chan theme.Event
}

// themeItem wraps a theme for the list component.
type themeItem struct {
	info theme.ThemeInfo
}

func (i themeItem) Title() string {
	return i.info.Name
}

func (i themeItem) Description() string {
	desc := i.info.Provenance.String()
	if !i.info.ModTime.IsZero() {
		desc += " · modified " + humanize.Time(i.info.ModTime)
	}
	return desc
}

func (i themeItem) FilterValue() string {
	return i.info.Name
}

// New creates a new TUI model.
func New(cfg *config.Config, m *theme.Manager, palette theme.SystemPalette) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if palette == nil {
		palette = theme.DefaultSystemPalette()
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Syntax Themes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	renameInput := textinput.New()
	renameInput.Placeholder = "New name"
	renameInput.CharLimit = 200

	model := Model{
		ctx:         context.Background(),
		cfg:         cfg,
		manager:     m,
		palette:     palette,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		renameInput: renameInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
	}

	if m != nil {
		model.events = m.Subscribe()
	}

	return model
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadThemes,
		m.watchForChanges,
	)
}

// loadThemes asks Update to re-read the theme list.
func (m Model) loadThemes() tea.Msg {
	return loadThemesMsg{}
}

type loadThemesMsg struct{}

// watchForChanges waits for the next manager event.
func (m Model) watchForChanges() tea.Msg {
	if m.events == nil {
		return nil
	}
	if _, ok := <-m.events; !ok {
		return nil
	}
	return refreshMsg{}
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	tool string
	err  error
}

// opDoneMsg reports the result of a background manager operation.
type opDoneMsg struct {
	action string
	name   string
	err    error
}

func status(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func statusError(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: prefix + ": " + err.Error(), isErr: true}
	}
}

// waitOp turns a pending manager operation into a message.
func waitOp(action string, op *theme.Op) tea.Cmd {
	return func() tea.Msg {
		name, err := op.Wait()
		return opDoneMsg{action: action, name: name, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		if m.mode == ModePreview {
			m.viewport.SetContent(m.renderPreview(m.selected))
		}

		return m, nil

	case loadThemesMsg:
		m.infos = m.fetchThemes()
		m.list.SetItems(m.buildListItems())
		return m, nil

	case refreshMsg:
		m.infos = m.fetchThemes()
		m.list.SetItems(m.buildListItems())
		if m.mode == ModePreview {
			m.viewport.SetContent(m.renderPreview(m.selected))
		}
		return m, m.watchForChanges

	case opDoneMsg:
		if msg.err != nil {
			return m, statusError(msg.action+" failed", msg.err)
		}
		m.selectTheme(msg.name)
		return m, status(fmt.Sprintf("%s %q", msg.action, msg.name))

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, statusError("Copy failed", msg.err)
		}
		return m, status("Copied as TOML via " + msg.tool)
	}

	// Update child components
	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModePreview:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	case ModeRename:
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs get every key except ctrl+c.
	switch m.mode {
	case ModeSearch:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleSearchKey(msg)
	case ModeRename:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleRenameKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModePreview:
		return m.handlePreviewKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// selectedName returns the highlighted theme, or "" if the list is empty.
func (m Model) selectedName() string {
	if item, ok := m.list.SelectedItem().(themeItem); ok {
		return item.info.Name
	}
	return ""
}

// selectTheme moves the list cursor to name if it is visible.
func (m *Model) selectTheme(name string) {
	for i, item := range m.list.Items() {
		if ti, ok := item.(themeItem); ok && ti.info.Name == name {
			m.list.Select(i)
			return
		}
	}
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if name := m.selectedName(); name != "" {
			m.selected = name
			m.mode = ModePreview
			m.viewport.SetContent(m.renderPreview(name))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		if err := m.manager.Refresh(); err != nil {
			return m, statusError("Refresh failed", err)
		}
		return m, m.loadThemes

	case key.Matches(msg, m.keys.Rename):
		name := m.selectedName()
		if name == "" {
			return m, nil
		}
		if m.manager.Provenance(name) != theme.ProvenanceUser {
			return m, statusError("Cannot rename", fmt.Errorf("%q is a bundled theme", name))
		}
		m.renaming = name
		m.renameInput.SetValue(name)
		m.renameInput.CursorEnd()
		m.mode = ModeRename
		m.renameInput.Focus()
		return m, textinput.Blink
	}

	if cmd, ok := m.handleThemeAction(msg, m.selectedName()); ok {
		return m, cmd
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleThemeAction runs the manager actions shared by list and preview
// mode against name.
func (m Model) handleThemeAction(msg tea.KeyMsg, name string) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.New):
		op, ok := m.manager.CreateUntitledTheme()
		if !ok {
			return statusError("Create failed", op.Err()), true
		}
		return waitOp("Created", op), true
	}

	if name == "" {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Duplicate):
		newName, err := m.manager.DuplicateTheme(name)
		if err != nil {
			return statusError("Duplicate failed", err), true
		}
		return func() tea.Msg {
			return opDoneMsg{action: "Created", name: newName}
		}, true

	case key.Matches(msg, m.keys.Remove):
		if err := m.manager.RemoveTheme(name); err != nil {
			if bundled, _ := m.manager.IsBundledTheme(name); bundled {
				return statusError("Cannot remove", fmt.Errorf("%q is a bundled theme", name)), true
			}
			return statusError("Remove failed", err), true
		}
		return status(fmt.Sprintf("Removed %q", name)), true

	case key.Matches(msg, m.keys.Restore):
		op, ok := m.manager.RestoreTheme(name)
		if !ok {
			return statusError("Restore failed", op.Err()), true
		}
		return waitOp("Restored", op), true

	case key.Matches(msg, m.keys.Copy):
		t, _, err := m.manager.ArchivedTheme(name)
		if err != nil {
			return statusError("Copy failed", err), true
		}
		data, err := theme.Encode(t, theme.FormatTOML)
		if err != nil {
			return statusError("Copy failed", err), true
		}
		return m.copyToClipboard(string(data)), true
	}

	return nil, false
}

// handlePreviewKey handles keys in preview mode.
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = ""
		return m, nil

	case key.Matches(msg, m.keys.Invisibles):
		m.showInvisibles = !m.showInvisibles
		m.viewport.SetContent(m.renderPreview(m.selected))
		return m, nil
	}

	if cmd, ok := m.handleThemeAction(msg, m.selected); ok {
		return m, cmd
	}

	// Pass to viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		if name := m.selectedName(); name != "" {
			m.selected = name
			m.mode = ModePreview
			m.searchInput.Blur()
			m.viewport.SetContent(m.renderPreview(name))
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

// handleRenameKey handles keys while entering a new name.
func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.renaming = ""
		m.renameInput.Blur()
		return m, nil

	case tea.KeyEnter:
		oldName, newName := m.renaming, m.renameInput.Value()
		if err := m.manager.RenameTheme(oldName, newName); err != nil {
			// Stay in rename mode so the name can be corrected.
			return m, statusError("Rename failed", err)
		}
		m.mode = ModeList
		m.renaming = ""
		m.renameInput.Blur()
		m.infos = m.fetchThemes()
		m.list.SetItems(m.buildListItems())
		m.selectTheme(strings.TrimSpace(newName))
		return m, status(fmt.Sprintf("Renamed %q to %q", oldName, strings.TrimSpace(newName)))
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

// fetchThemes gets the theme listing from the manager.
func (m Model) fetchThemes() []theme.ThemeInfo {
	if m.manager != nil {
		return m.manager.ThemeInfos()
	}
	return nil
}

// buildListItems creates list items from the current themes.
func (m Model) buildListItems() []list.Item {
	query := strings.ToLower(m.searchQuery)

	items := make([]list.Item, 0, len(m.infos))
	for _, info := range m.infos {
		if query != "" && !strings.Contains(strings.ToLower(info.Name), query) {
			continue
		}
		items = append(items, themeItem{info: info})
	}
	return items
}

// renderPreview renders the sample code and swatches for a theme.
func (m Model) renderPreview(name string) string {
	if name == "" || m.manager == nil {
		return ""
	}

	t, isBundled, err := m.manager.ArchivedTheme(name)
	if err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(err.Error())
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	source := "user"
	if isBundled {
		source = "bundled"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(name) + "\n")
	s.WriteString(labelStyle.Render("Source: ") + source + "  " +
		labelStyle.Render("Provenance: ") + m.manager.Provenance(name).String() + "\n\n")

	if m.cfg.TUI.ShowPreview {
		s.WriteString(preview.Render(t, preview.Options{
			Palette:        m.palette,
			ShowInvisibles: m.showInvisibles,
		}))
		s.WriteString("\n\n")
	}
	s.WriteString(preview.Swatches(t, m.palette))
	s.WriteString("\n")

	return s.String()
}

// copyToClipboard copies text to the system clipboard. The copy is
// cancelled when the program exits.
func (m Model) copyToClipboard(text string) tea.Cmd {
	ctx, configured := m.ctx, m.cfg.Clipboard.Command
	return func() tea.Msg {
		tool, err := copyText(ctx, systemClipboardEnv, configured, text)
		return copyResultMsg{tool: tool, err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModePreview:
		return m.viewPreview()
	case ModeSearch:
		return m.viewSearch()
	case ModeRename:
		return m.viewRename()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) statusLine(mode string) string {
	if m.statusMsg == "" {
		if !m.cfg.TUI.ShowHelp {
			return ""
		}
		return m.buildKeybindBar(m.width, mode)
	}
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))
	if m.statusErr {
		statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
	}
	return statusStyle.Render(m.statusMsg)
}

func (m Model) viewList() string {
	return m.list.View() + "\n" + m.statusLine("list")
}

func (m Model) viewPreview() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Theme Preview")

	return header + "\n" + m.viewport.View() + "\n" + m.statusLine("preview")
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))

	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, "search")
}

func (m Model) viewRename() string {
	prompt := fmt.Sprintf("Rename %q: ", m.renaming)
	return prompt + m.renameInput.View() + "\n" + m.list.View() + "\n" + m.statusLine("rename")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	m.help.ShowAll = true
	m.help.Width = m.width

	return titleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		m.help.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list", "preview", "search", "rename"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "preview", 2},
			{"?", "help", 3},
			{"/", "search", 4},
			{"n", "new", 5},
			{"y", "duplicate", 6},
			{"e", "rename", 7},
			{"x", "remove", 8},
			{"R", "restore", 9},
			{"c", "copy", 10},
		}
	case "preview":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"i", "invisibles", 3},
			{"y", "duplicate", 4},
			{"R", "restore", 5},
			{"c", "copy", 6},
			{"j/k", "scroll", 7},
		}
	case "search":
		binds = []keybind{
			{"enter", "preview", 1},
			{"esc", "close", 2},
			{"↑/↓", "navigate", 3},
		}
	case "rename":
		binds = []keybind{
			{"enter", "rename", 1},
			{"esc", "cancel", 2},
		}
	}

	// Add keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		testLen := lipgloss.Width(b.key + " " + b.desc)
		if result != "" {
			testLen += lipgloss.Width(result) + len(separator)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config  *config.Config
	Manager *theme.Manager
	Palette theme.SystemPalette
	// Watch starts a directory watcher so edits made elsewhere show up.
	Watch bool
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watcher *theme.Watcher
	if opts.Watch {
		watcher = theme.NewWatcher(opts.Manager, cfg.Watch.Debounce.Duration(), nil)
		if err := watcher.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to start theme watcher: %v\n", err)
			watcher = nil
		}
	}

	m := New(cfg, opts.Manager, opts.Palette)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()

	if watcher != nil {
		watcher.Stop()
	}
	opts.Manager.Unsubscribe(m.events)

	return err
}
