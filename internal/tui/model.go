// Package tui hosts the Bubble Tea program for the weather picker.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"weather-picker/internal/session"
)

type level int

const (
	levelContinent level = iota
	levelCountry
	levelProvince
	levelCount
)

var levelTitles = [levelCount]string{"Continent", "Country", "Province"}

type optionsLoadedMsg struct {
	trigger session.Trigger
	err     error
}

type forecastLoadedMsg struct{ err error }

var (
	focusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	blurTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	alertStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("196")).Padding(0, 2)
	forecastStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

const helpLine = "tab/←→ switch list • enter choose • f forecast • esc dismiss • q quit"

// Model is the picker UI. Network work runs in commands so Update never blocks.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	alerts *AlertBox

	lists    [levelCount]list.Model
	focus    level
	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate

	alert  string
	status string

	termWidth  int
	termHeight int
}

// New creates the UI around a controller. alerts must be the Alerter given to
// the controller's sentinel detector.
func New(ctx context.Context, ctrl *session.Controller, alerts *AlertBox) *Model {
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	// Unfocused lists should not highlight their cursor row
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.ShowDescription = false
	dBlur.ShowDescription = false
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		alerts:   alerts,
		focusDel: dFocus,
		blurDel:  dBlur,
	}
	for i := range m.lists {
		l := list.New([]list.Item{}, dBlur, 28, 16)
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.SetShowTitle(false)
		l.SetFilteringEnabled(false)
		m.lists[i] = l
	}
	m.lists[levelContinent].SetItems(continentItems())
	m.updateFocus()
	return m
}

// Init has nothing to load: the continent table is static
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and keybindings
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	routeToList := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case optionsLoadedMsg:
		m.syncLists()
		m.collectAlerts()
		if msg.err != nil {
			m.status = "ERR: " + msg.err.Error()
		} else {
			m.status = "Loaded " + msg.trigger.Kind.String() + " for " + msg.trigger.Key
		}
	case forecastLoadedMsg:
		m.collectAlerts()
		switch {
		case errors.Is(msg.err, session.ErrSuperseded):
			m.status = "Forecast discarded: selection changed, press f to fetch again"
		case msg.err != nil:
			m.status = "ERR: " + msg.err.Error()
		default:
			m.status = "Forecast updated"
		}
	case tea.KeyPressMsg:
		routeToList = m.handleKey(msg, &cmds)
	default:
		routeToList = true
	}

	if routeToList {
		var cmd tea.Cmd
		m.lists[m.focus], cmd = m.lists[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey reports whether the key should also reach the focused list
func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	key := msg.String()

	if m.alert != "" {
		switch key {
		case "esc", "enter", "space":
			m.alert = ""
		case "ctrl+c":
			*cmds = append(*cmds, tea.Quit)
		}
		return false
	}

	switch key {
	case "q", "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case "tab", "right", "l":
		m.focus = (m.focus + 1) % levelCount
		m.updateFocus()
	case "shift+tab", "left", "h":
		m.focus = (m.focus + levelCount - 1) % levelCount
		m.updateFocus()
	case "enter":
		if o, ok := m.lists[m.focus].SelectedItem().(option); ok {
			*cmds = append(*cmds, m.choose(m.focus, o.value))
		}
	case "f":
		if cmd := m.fetchForecast(); cmd != nil {
			*cmds = append(*cmds, cmd)
		} else {
			m.status = "Choose a continent, country and province first"
		}
	default:
		return true
	}
	return false
}

// choose applies a selection change and returns the fetch it requires
func (m *Model) choose(lvl level, value string) tea.Cmd {
	var trigger session.Trigger
	switch lvl {
	case levelContinent:
		trigger = m.ctrl.SetContinent(value)
	case levelCountry:
		trigger = m.ctrl.SetCountry(value)
	case levelProvince:
		trigger = m.ctrl.SetProvince(value)
	}

	m.syncLists()
	if trigger.IsZero() {
		return nil
	}
	m.status = "Loading " + trigger.Kind.String() + "..."

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return optionsLoadedMsg{trigger: trigger, err: ctrl.Run(ctx, trigger)}
	}
}

// fetchForecast requests the forecast for a complete selection
func (m *Model) fetchForecast() tea.Cmd {
	if !m.ctrl.Snapshot().Selection.Complete() {
		return nil
	}
	m.status = "Loading forecast..."

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return forecastLoadedMsg{err: ctrl.FetchForecast(ctx)}
	}
}

// syncLists copies the session's option lists into the country and province
// lists, keeping the cursor on the selected value when it is still present
func (m *Model) syncLists() {
	snap := m.ctrl.Snapshot()
	m.setOptions(levelCountry, snap.Countries, snap.Selection.Country)
	m.setOptions(levelProvince, snap.Provinces, snap.Selection.Province)
}

func (m *Model) setOptions(lvl level, opts session.OptionList, selected string) {
	items := optionItems(opts)
	m.lists[lvl].SetItems(items)
	if idx := indexForValue(items, selected); idx >= 0 {
		m.lists[lvl].Select(idx)
	} else if len(items) > 0 {
		m.lists[lvl].Select(0)
	}
}

func (m *Model) collectAlerts() {
	if pending := m.alerts.Drain(); len(pending) > 0 {
		m.alert = pending[len(pending)-1]
	}
}

func (m *Model) updateFocus() {
	for i := range m.lists {
		if level(i) == m.focus {
			m.lists[i].SetDelegate(m.focusDel)
		} else {
			m.lists[i].SetDelegate(m.blurDel)
		}
	}
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	width := max(m.termWidth/int(levelCount)-2, 10)
	// lists take the top half, the forecast pane the rest
	height := max(m.termHeight/2-2, 5)
	for i := range m.lists {
		m.lists[i].SetSize(width, height)
	}
}

// View renders the three lists, the forecast and any pending alert
func (m *Model) View() string {
	columns := make([]string, 0, levelCount)
	for i := range m.lists {
		title := blurTitleStyle
		if level(i) == m.focus {
			title = focusTitleStyle
		}
		header := title.Render(levelTitles[i] + ": " + m.selectedValue(level(i)))
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, header, m.lists[i].View()))
	}
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns[0], gap(" "), columns[1], gap(" "), columns[2])

	_, projected := m.ctrl.Forecast()
	sections := []string{body, forecastStyle.Render(renderForecast(projected))}
	if m.alert != "" {
		sections = append(sections, alertStyle.Render(m.alert))
	}
	footer := helpLine
	if m.status != "" {
		footer = m.status + "  •  " + helpLine
	}
	sections = append(sections, mutedStyle.Render(footer))

	return strings.Join(sections, "\n")
}

func (m *Model) selectedValue(lvl level) string {
	sel := m.ctrl.Snapshot().Selection
	switch lvl {
	case levelContinent:
		return sel.Continent
	case levelCountry:
		return sel.Country
	default:
		return sel.Province
	}
}
