// Package tui is a read-only terminal browser over the persisted edition
// snapshot. It never touches the network; refreshing an edition is the
// fetch command's job.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/browser"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeAlmanac
	modeHelp
)

type openErrMsg struct{ err error }

type App struct {
	snap   *news.Snapshot
	tabs   tabBar
	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	searchInput   textinput.Model
	previewScroll int
	err           error
}

func NewApp(snap *news.Snapshot) *App {
	ti := textinput.New()
	ti.Placeholder = "搜索本版新闻..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	return &App{
		snap:        snap,
		tabs:        newTabBar(snap),
		searchInput: ti,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

// visibleItems is the active category filtered by the current search term.
func (a *App) visibleItems() []news.Item {
	cat, ok := a.snap.Categories[a.tabs.activeKey()]
	if !ok {
		return nil
	}
	term := strings.ToLower(strings.TrimSpace(a.searchInput.Value()))
	if term == "" {
		return cat.Items
	}
	var out []news.Item
	for _, it := range cat.Items {
		if strings.Contains(strings.ToLower(it.Title), term) ||
			strings.Contains(strings.ToLower(it.Summary), term) {
			out = append(out, it)
		}
	}
	return out
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case openErrMsg:
		a.err = msg.err
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeAlmanac:
		switch msg.String() {
		case "w", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	items := a.visibleItems()

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(items)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "right", "l":
		a.tabs.next()
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "left", "h":
		a.tabs.prev()
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.tabs.keys) {
			a.tabs.active = idx
			a.cursor = 0
			a.previewScroll = 0
		}
		return a, nil
	case "o", "enter":
		if len(items) > 0 && a.cursor < len(items) {
			return a, openBrowserCmd(items[a.cursor].Link)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "w":
		if a.snap.Weather != nil {
			a.mode = modeAlmanac
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.cursor = 0
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		a.cursor = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  幻想乡日报")
	}

	if a.mode == modeAlmanac {
		return a.renderAlmanac()
	}
	if a.mode == modeHelp {
		return a.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	tabHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - tabHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header: masthead + edition date
	headerLeft := headerStyle.Render(a.snap.Meta.Title)
	headerRight := headerDateStyle.Render(a.snap.Meta.Edition + " · " + a.snap.Meta.UpdatedAt.Format("Jan 2 15:04"))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Category tabs (replaced by the search input while searching)
	tabs := a.tabs.render(a.width)
	if a.mode == modeSearch {
		tabs = a.searchInput.View()
	}

	items := a.visibleItems()
	if a.cursor >= len(items) {
		a.cursor = max(0, len(items)-1)
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(items, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	var selected *news.Item
	if len(items) > 0 && a.cursor < len(items) {
		selected = &items[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(len(items), a.snap.Meta.Edition, a.width, a.mode == modeSearch)

	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

func (a *App) renderAlmanac() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("幻想乡天气")

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, f := range a.snap.Weather.Forecasts {
		b.WriteString(fmt.Sprintf("  %s %-8s %s %d°C\n", f.Icon, f.Location, f.Condition, f.Temperature))
	}
	b.WriteString("\n" + helpDimStyle.Render("w/esc close"))

	card := helpCardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("幻想乡日报")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate item list\n" +
		"  tab           Switch focus between list and preview\n" +
		"  ←/→, h/l     Previous / next page\n" +
		"  1-9           Jump to page by number\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open item in browser\n" +
		"  /             Search current page\n" +
		"  w             Gensokyo weather almanac\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the snapshot browser.
func Run(snap *news.Snapshot) error {
	app := NewApp(snap)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
