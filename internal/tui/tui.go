package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"github.com/tatianab/kingdom-crisis/internal/store"
)

// Options wires the program to the rest of the game. Slots and Outcomes
// may be nil, which disables saving and the outcome history.
type Options struct {
	Rules    config.Rules
	Evidence *engine.EvidenceLibrary
	Narrator engine.Narrator
	Logger   *logger.Logger
	Slots    store.Slots
	Outcomes *store.OutcomeRepo
	// Seed makes successive games reproducible. Zero seeds from the clock.
	Seed uint64
}

type screen int

const (
	screenSelect screen = iota
	screenPlaying
	screenEnding
	screenError
)

type promptKind int

const (
	promptNone promptKind = iota
	promptTransfer
	promptSave
)

// menuHeight is the number of rows kept for the tab bar and action list.
const menuHeight = 9

type entry struct {
	player bool
	text   string
}

type model struct {
	opts   Options
	keys   keyMap
	screen screen

	// session is only handed to commands; rendering reads snap.
	session *engine.Session
	snap    models.Snapshot
	report  string
	games   uint64

	roleCursor int
	tab        tab
	cursor     int
	prompt     promptKind
	busy       bool
	status     string

	recent []store.OutcomeRecord
	resume *store.SaveSummary

	entries  []entry
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	progress progress.Model
	meter    progress.Model
	help     help.Model
	err      error
	width    int
	height   int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#AAAAAA"))

	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)
)

// roleChoices are the rows of the selection screen; the empty role lets
// the session pick one.
var roleChoices = []models.Role{models.RoleKing, models.RoleCaptain, models.RoleSpy, ""}

func newModel(opts Options) model {
	opts.Logger = logger.OrDiscard(opts.Logger)
	if opts.Rules.TotalDays == 0 {
		opts.Rules = config.DefaultRules()
	}

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	return model{
		opts:     opts,
		keys:     defaultKeys(),
		screen:   screenSelect,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(20)),
		meter:    progress.New(progress.WithSolidFill("#5F5F87"), progress.WithoutPercentage(), progress.WithWidth(10)),
		help:     help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return loadTitle(m.opts)
}

// nextRNG hands each new game its own seeded generator. A nil result lets
// the session seed itself from the clock.
func (m *model) nextRNG() engine.RNG {
	if m.opts.Seed == 0 {
		return nil
	}
	m.games++
	return engine.NewRNG(m.opts.Seed + m.games - 1)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case titleMsg:
		m.recent = msg.recent
		m.resume = msg.resume
		if msg.err != nil {
			m.opts.Logger.Warn("title screen: %v", msg.err)
			m.status = errorStyle.Render(msg.err.Error())
		}
		return m, nil

	case startedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.screen = screenError
			return m, nil
		}
		m.session = msg.session
		m.snap = msg.snap
		m.report = msg.report
		m.tab = tabAcquire
		m.cursor = 0
		m.status = ""
		m.entries = nil
		m.addEntry(false, fmt.Sprintf("%s. %s faces %s.", m.snap.Role.Description(), m.snap.Role.Title(), m.snap.PrimaryEvent.Title()))
		m.addEntry(false, msg.intro)
		m.noteSave(msg.saveErr)
		m.screen = screenPlaying
		if m.snap.Over() {
			m.screen = screenEnding
		}
		m.resize()
		return m, nil

	case turnMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
			return m, nil
		}
		m.snap = msg.snap
		m.report = msg.report
		m.status = ""
		m.addEntry(false, renderTurn(msg.res))
		m.noteSave(msg.saveErr)
		if msg.res.Resolution != nil {
			m.screen = screenEnding
			m.resize()
			m.viewport.GotoTop()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = fmt.Sprintf("Saved to slot %q.", msg.name)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.prompt != promptNone {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.prompt != promptNone {
		return m.handlePrompt(msg)
	}
	if m.busy {
		return m, nil
	}

	switch m.screen {
	case screenSelect:
		return m.handleSelect(msg)
	case screenPlaying:
		return m.handlePlaying(msg)
	case screenEnding:
		switch {
		case key.Matches(msg, m.keys.NewGame):
			return m.backToSelect()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case screenError:
		if key.Matches(msg, m.keys.NewGame) {
			m.err = nil
			return m.backToSelect()
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) backToSelect() (tea.Model, tea.Cmd) {
	m.screen = screenSelect
	m.session = nil
	m.snap = models.Snapshot{}
	m.entries = nil
	m.status = ""
	return m, loadTitle(m.opts)
}

func (m model) handleSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.roleCursor > 0 {
			m.roleCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.roleCursor < len(roleChoices)-1 {
			m.roleCursor++
		}
	case key.Matches(msg, m.keys.Choose):
		rng := m.nextRNG()
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, startSession(m.opts, roleChoices[m.roleCursor], rng))
	case key.Matches(msg, m.keys.Continue):
		if m.resume == nil || m.opts.Slots == nil {
			return m, nil
		}
		rng := m.nextRNG()
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, resumeSession(m.opts, rng))
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handlePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := menuItems(m.snap.Role, m.snap.PrimaryEvent, m.tab)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextTab):
		m.tab = tabs[(int(m.tab)+1)%len(tabs)]
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = tabs[(int(m.tab)+len(tabs)-1)%len(tabs)]
		m.cursor = 0
	case key.Matches(msg, m.keys.Choose):
		if m.cursor >= len(items) {
			return m, nil
		}
		it := items[m.cursor]
		m.addEntry(true, it.name)
		return m.play(it.perform(m.tab))
	case key.Matches(msg, m.keys.Wait):
		m.addEntry(true, "Wait")
		return m.play(func(s *engine.Session) (*engine.TurnResult, error) { return s.Wait() })
	case key.Matches(msg, m.keys.Transfer):
		return m.openPrompt(promptTransfer, "source target amount, e.g. 1 2 10")
	case key.Matches(msg, m.keys.Save):
		return m.openPrompt(promptSave, "slot name")
	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m model) play(act func(*engine.Session) (*engine.TurnResult, error)) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, playTurn(m.opts, m.session, act))
}

func (m model) openPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = placeholder
	cmd := m.input.Focus()
	return m, cmd
}

func (m *model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Choose):
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		if kind == promptSave {
			return m, saveSlot(m.opts, value, m.snap)
		}
		src, dst, amount, err := parseTransfer(m.snap.Role, value)
		if err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.addEntry(true, fmt.Sprintf("Transfer %d %s to %s", amount, src.Title(), dst.Title()))
		return m.play(func(s *engine.Session) (*engine.TurnResult, error) { return s.Transfer(src, dst, amount) })
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) noteSave(err error) {
	if err != nil {
		m.status = errorStyle.Render("autosave failed: " + err.Error())
	}
}

func (m *model) addEntry(player bool, text string) {
	if text == "" {
		return
	}
	m.entries = append(m.entries, entry{player: player, text: text})
	m.refresh()
}

func (m *model) resize() {
	m.viewport.Width = int(float64(m.width) * 0.75)
	h := m.height - menuHeight - 6
	if m.screen == screenEnding {
		h = m.height - 6
	}
	m.viewport.Height = max(h, 5)
	panel := int(float64(m.width)*0.23) - 4
	m.progress.Width = max(panel, 10)
	m.meter.Width = max(panel-20, 5)
	m.help.Width = m.width
	m.refresh()
}

// refresh re-renders the viewport content for the current screen.
func (m *model) refresh() {
	w := m.viewport.Width
	if m.screen == screenEnding {
		m.viewport.SetContent(gameStyle.Width(w).Render(m.report))
		return
	}
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		if e.player {
			parts[i] = userStyle.Width(w).Render("> " + e.text)
		} else {
			parts[i] = gameStyle.Width(w).Render(e.text)
		}
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var s string

	switch m.screen {
	case screenSelect:
		s = m.viewSelect()

	case screenPlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			m.renderMenu(),
			m.renderFooter(m.keys.playingHelp()),
		)

	case screenEnding:
		heading := "The crisis is over"
		if r := m.snap.Resolution; r != nil {
			heading = fmt.Sprintf("%s: %s", r.Event.Title(), r.Outcome.Title())
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(heading),
			m.viewport.View(),
			m.renderFooter(m.keys.endingHelp()),
		)

	case screenError:
		s = fmt.Sprintf("\n  %s\n\n%s",
			errorStyle.Render("Error: "+m.err.Error()),
			helpStyle.Render("Press n to return to role selection or q to quit."))
	}

	return "\n" + s + "\n"
}

func (m model) viewSelect() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("KINGDOM CRISIS") + "\n\n")
	fmt.Fprintf(&b, "A crisis will strike in %d days. Choose who you will be:\n\n", m.opts.Rules.TotalDays)

	for i, role := range roleChoices {
		name, desc := "Random", "Let fate decide"
		if role != "" {
			name, desc = role.Title(), role.Description()
		}
		line := fmt.Sprintf("  %-8s %s", name, dimStyle.Render(desc))
		if i == m.roleCursor {
			line = selectedStyle.Render("> "+fmt.Sprintf("%-8s", name)) + " " + desc
		}
		b.WriteString(line + "\n")
	}

	if r := m.resume; r != nil {
		fmt.Fprintf(&b, "\nSaved game: %s facing %s, day %d %s\n", r.Role.Title(), r.Event.Title(), r.Day, r.Slot)
	}
	if len(m.recent) > 0 {
		b.WriteString("\n" + titleStyle.Render("RECENT OUTCOMES") + "\n")
		for _, rec := range m.recent {
			fmt.Fprintf(&b, "%s vs %s: %s (%.0f%% prepared)\n",
				rec.Role.Title(), rec.Event.Title(), rec.Outcome.Title(), rec.Effectiveness*100)
		}
	}
	b.WriteString("\n" + m.renderFooter(m.keys.selectHelp(m.resume != nil && m.opts.Slots != nil)))
	return b.String()
}

func (m model) renderFooter(bindings []key.Binding) string {
	var lines []string
	switch {
	case m.busy:
		lines = append(lines, m.spinner.View()+" The kingdom holds its breath...")
	case m.prompt == promptTransfer:
		lines = append(lines, "Transfer: "+m.input.View())
		bindings = m.keys.promptHelp()
	case m.prompt == promptSave:
		lines = append(lines, "Save as: "+m.input.View())
		bindings = m.keys.promptHelp()
	}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	lines = append(lines, m.help.ShortHelpView(bindings))
	return "\n" + strings.Join(lines, "\n")
}

func (m model) renderMenu() string {
	var bar []string
	for _, t := range tabs {
		style := tabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		bar = append(bar, style.Render(t.String()))
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, bar...)}
	balances := m.snap.Resources[m.snap.Role]
	for i, it := range menuItems(m.snap.Role, m.snap.PrimaryEvent, m.tab) {
		text := fmt.Sprintf("%-28s cost: %s", it.name, it.cost)
		if it.cost.Total() == 0 {
			text = fmt.Sprintf("%-28s free", it.name)
		}
		if len(it.gain) > 0 {
			text += "  gain: " + it.gain.String()
		}
		if it.prep != nil {
			text += fmt.Sprintf("  [%s] ~%.0f%%", it.prep.Tier, engine.Effectiveness(*it.prep, balances, m.opts.Rules)*100)
		}
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		switch {
		case !affordable(m.snap, it.cost):
			text = dimStyle.Render(prefix + text + " (cannot afford)")
		case i == m.cursor:
			text = selectedStyle.Render(prefix + text)
		default:
			text = prefix + text
		}
		lines = append(lines, text)
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m model) renderState() string {
	snap := m.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render(strings.ToUpper(snap.Role.Title())) + "\n")
	fmt.Fprintf(&b, "Day %d of %d, %s\n%s\n\n", snap.Day, m.opts.Rules.TotalDays, snap.Slot, snap.Phase.Title())

	b.WriteString(titleStyle.Render("RESOURCES") + "\n")
	for i, res := range snap.Role.Resources() {
		v := snap.Balance(res)
		ratio := float64(v) / float64(max(m.opts.Rules.MaxResource, 1))
		fmt.Fprintf(&b, "%d %-15s %3d %s\n", i+1, res.Title(), v, m.meter.ViewAs(ratio))
	}

	b.WriteString("\n" + titleStyle.Render("PREPARATION") + "\n")
	fmt.Fprintf(&b, "%s\n%s\n\n", snap.PrimaryEvent.Title(), m.progress.ViewAs(snap.PrimaryProgress()))

	b.WriteString(titleStyle.Render("EVIDENCE") + "\n")
	fmt.Fprintf(&b, "%d clues gathered\n\n", len(snap.Evidence))

	b.WriteString(titleStyle.Render("RANDOM EVENTS") + "\n")
	if len(snap.RandomEvents) == 0 {
		b.WriteString("(none yet)")
	}
	for _, ev := range snap.RandomEvents {
		fmt.Fprintf(&b, "Day %d: %s\n", ev.Day, ev.Name)
	}

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

// Run starts the interactive program and blocks until the player quits.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
