package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/session"
	"github.com/matzehuels/cubicleview/pkg/watch"
)

// exploreCommand browses a graph in the terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		follow  bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "explore <file.dot>",
		Short: "Browse a graph interactively",
		Long: `Explore lists the states of a graph with a fuzzy search box. Selecting a
state shows its ancestors and the transitions leading to it; the current view
can be saved as SVG or the path copied to the clipboard.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, follow, noCache)
		},
	}
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload when the file changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, follow, noCache bool) error {
	path, data, err := readGraph(args)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sess := session.New(runner, session.Config{View: c.Config.View, Logger: c.Logger})
	go sess.Run(ctx)

	spinner := newSpinner(ctx, "Laying out "+path+"...")
	spinner.Start()
	err = sess.Load(ctx, path, data)
	spinner.Stop()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newExploreModel(ctx, sess, path), tea.WithAltScreen(), tea.WithContext(ctx))
	if follow {
		w, err := watch.New(path, watch.NewDebouncer(c.Config.Watch.Debounce), c.Logger)
		if err != nil {
			return err
		}
		go func() {
			_ = w.Run(ctx, func(data []byte) { p.Send(reloadMsg{data: data}) })
		}()
	}
	_, err = p.Run()
	return err
}

// =============================================================================
// Messages
// =============================================================================

// loadedMsg carries the state after a session operation.
type loadedMsg struct {
	graph *model.Graph
	snap  session.Snapshot
}

type reloadMsg struct{ data []byte }

type errMsg struct{ err error }

type statusMsg string

// =============================================================================
// Key bindings
// =============================================================================

type exploreKeys struct {
	Up, Down key.Binding
	Select   key.Binding
	Clear    key.Binding
	Variant  key.Binding
	ShowAll  key.Binding
	Copy     key.Binding
	Save     key.Binding
	Quit     key.Binding
}

var keys = exploreKeys{
	Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "select")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Variant: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "subsumed")),
	ShowAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("^a", "all")),
	Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "copy path")),
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save svg")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "quit")),
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Clear, k.Variant, k.ShowAll, k.Copy, k.Save, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Clear}, {k.Variant, k.ShowAll, k.Copy, k.Save, k.Quit}}
}

// =============================================================================
// Model
// =============================================================================

var (
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// exploreModel is the bubbletea model of the explore command. It drives a
// session with a single split.
type exploreModel struct {
	ctx  context.Context
	sess *session.Session
	path string

	input textinput.Model
	help  help.Model

	graph   *model.Graph
	index   *nodeIndex
	snap    session.Snapshot
	matches []*model.Node
	cursor  int
	offset  int

	status string
	err    error
	width  int
	height int
}

func newExploreModel(ctx context.Context, sess *session.Session, path string) exploreModel {
	ti := textinput.New()
	ti.Placeholder = "Search states..."
	ti.Prompt = "› "
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()
	return exploreModel{
		ctx:    ctx,
		sess:   sess,
		path:   path,
		input:  ti,
		help:   help.New(),
		width:  100,
		height: 30,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh)
}

// refresh reads the split's graph and the session snapshot.
func (m exploreModel) refresh() tea.Msg {
	g, err := m.sess.SplitGraph(m.ctx, 0)
	if err != nil {
		return errMsg{err}
	}
	snap, err := m.sess.Snapshot(m.ctx)
	if err != nil {
		return errMsg{err}
	}
	return loadedMsg{graph: g, snap: snap}
}

// then runs op on the session and refreshes.
func (m exploreModel) then(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return errMsg{err}
		}
		return m.refresh()
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.graph != m.graph {
			m.graph = msg.graph
			m.index = newNodeIndex(msg.graph)
			m.filter()
		}
		m.snap = msg.snap
		m.err = nil
		return m, nil

	case reloadMsg:
		m.status = "reloading " + m.path
		return m, m.then(func() error { return m.sess.Load(m.ctx, m.path, msg.data) })

	case errMsg:
		m.err = msg.err
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m exploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.move(1)
		return m, nil
	case key.Matches(msg, keys.Select):
		if n := m.current(); n != nil {
			return m, m.then(func() error { return m.sess.Select(m.ctx, 0, n.Name) })
		}
		return m, nil
	case key.Matches(msg, keys.Clear):
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.filter()
			return m, nil
		}
		return m, m.then(func() error { return m.sess.ClearSelection(m.ctx) })
	case key.Matches(msg, keys.Variant):
		return m, m.then(func() error { return m.sess.ToggleFlag(m.ctx, 0, options.FlagSubsumed) })
	case key.Matches(msg, keys.ShowAll):
		return m, m.then(func() error { return m.sess.ToggleAll(m.ctx, 0) })
	case key.Matches(msg, keys.Copy):
		return m, m.copyPath()
	case key.Matches(msg, keys.Save):
		return m, m.save()
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.filter()
	}
	return m, cmd
}

func (m *exploreModel) filter() {
	if m.index == nil {
		m.matches = nil
	} else {
		m.matches = m.index.Search(m.input.Value())
	}
	m.cursor, m.offset = 0, 0
}

func (m *exploreModel) move(d int) {
	m.cursor = max(0, min(len(m.matches)-1, m.cursor+d))
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m exploreModel) current() *model.Node {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return nil
	}
	return m.matches[m.cursor]
}

func (m exploreModel) listHeight() int {
	return max(5, m.height-8)
}

func (m exploreModel) copyPath() tea.Cmd {
	sel := m.snap.Selection
	return func() tea.Msg {
		if sel.Empty() {
			return statusMsg("nothing selected")
		}
		if err := clipboard.WriteAll(formatTrace(sel)); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("copied %d path edges", len(sel.Path)))
	}
}

func (m exploreModel) save() tea.Cmd {
	variant := pipeline.VariantFull.String()
	if len(m.snap.Splits) > 0 {
		variant = m.snap.Splits[0].Variant
	}
	name := outputBase(m.path, "") + "-" + variant + "." + pipeline.FormatSVG
	return func() tea.Msg {
		f, err := os.Create(name)
		if err != nil {
			return errMsg{err}
		}
		err = m.sess.Render(m.ctx, 0, pipeline.FormatSVG, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errMsg{err}
		}
		return statusMsg("saved " + name)
	}
}

// =============================================================================
// View
// =============================================================================

func (m exploreModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render("cubicleview") + " " + StyleDim.Render(m.path)
	if len(m.snap.Splits) > 0 {
		sp := m.snap.Splits[0]
		title += StyleDim.Render(fmt.Sprintf(" · %s · %d states · %d edges", sp.Variant, sp.Nodes, sp.Edges))
	}
	b.WriteString(title + "\n")
	b.WriteString(m.input.View() + "\n")

	listWidth := max(30, m.width/2-4)
	list := paneStyle.Width(listWidth).Render(m.viewList())
	detail := paneStyle.Width(max(30, m.width-listWidth-8)).Render(m.viewSelection())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	case m.status != "":
		b.WriteString(StyleDim.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m exploreModel) viewList() string {
	if len(m.matches) == 0 {
		return StyleDim.Render("no matching states")
	}
	var lines []string
	end := min(len(m.matches), m.offset+m.listHeight())
	sel := m.snap.Selection
	for i := m.offset; i < end; i++ {
		n := m.matches[i]
		line := formatState(n)
		switch {
		case sel.IsSelected(n.Name):
			line = StyleSelected.Render("● ") + line
		case sel.IsAncestor(n.Name):
			line = StyleAncestor.Render("● ") + line
		default:
			line = "  " + line
		}
		if i == m.cursor {
			line = cursorStyle.Render("▸") + line
		} else {
			line = " " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, StyleDim.Render(fmt.Sprintf(" [%d/%d]", m.cursor+1, len(m.matches))))
	return strings.Join(lines, "\n")
}

func (m exploreModel) viewSelection() string {
	sel := m.snap.Selection
	if sel.Empty() {
		return StyleDim.Render("select a state to trace it")
	}
	lines := []string{
		StyleTitle.Render("State ") + StyleSelected.Render(sel.Node),
		StyleDim.Render(fmt.Sprintf("%d ancestors, %d path edges", len(sel.Ancestors), len(sel.Path))),
		"",
	}
	room := max(1, m.listHeight()-len(lines))
	for i, ref := range sel.Path {
		if i == room {
			lines = append(lines, StyleDim.Render(fmt.Sprintf("… %d more", len(sel.Path)-room)))
			break
		}
		lines = append(lines, StyleAncestor.Render(ref.Source)+" "+StyleDim.Render(iconArrow)+" "+StyleHighlight.Render(ref.Target))
	}
	return strings.Join(lines, "\n")
}
