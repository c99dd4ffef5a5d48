package progress

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"episync/internal/index"
	"episync/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IndexProgressModel is a full-screen Bubble Tea model shown while one
// library root is being walked into a tree. The caller extracts the tree
// afterwards and keys it into a file index.
type IndexProgressModel struct {
	root  string // absolute root being indexed
	label string // "source" or "target", for the header

	totalRoots     int
	processedRoots int
	filesIndexed   int
	indexingDone   bool

	width  int
	height int

	tree *treeview.Tree[treeview.FileInfo]
	err  error

	progress progress.Model
	msgCh    chan tea.Msg
	seen     map[string]struct{}

	theme theme.Theme
}

type indexProgressMsg struct{}

type indexCompleteMsg struct{}

type treeBuilderFunc func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error)

var indexTreeBuilder treeBuilderFunc = treeview.NewTreeFromFileSystem

// NewIndexProgressModel creates a model for one library root. Progress is
// tracked against the number of top-level entries in the root.
func NewIndexProgressModel(root, label string, th theme.Theme) *IndexProgressModel {
	entries, _ := os.ReadDir(root)
	gradient := th.ProgressGradient()
	p := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	p.Width = 50
	absRoot, _ := filepath.Abs(root)
	return &IndexProgressModel{
		root:       absRoot,
		label:      label,
		totalRoots: max(len(entries), 1),
		width:      80,
		height:     12,
		progress:   p,
		msgCh:      make(chan tea.Msg, 64),
		seen:       make(map[string]struct{}),
		theme:      th,
	}
}

// Init kicks off asynchronous tree building.
func (m *IndexProgressModel) Init() tea.Cmd {
	go m.buildTreeAsync()
	return m.waitForMsg()
}

func (m *IndexProgressModel) waitForMsg() tea.Cmd { return func() tea.Msg { return <-m.msgCh } }

func (m *IndexProgressModel) buildTreeAsync() {
	t, err := indexTreeBuilder(context.Background(), m.root, false,
		treeview.WithTraversalCap[treeview.FileInfo](2000000),
		treeview.WithFilterFunc(index.WalkFilter),
		treeview.WithProgressCallback[treeview.FileInfo](func(_ int, n *treeview.Node[treeview.FileInfo]) {
			if filepath.Dir(n.Data().Path) == m.root {
				name := n.Data().Name()
				if _, ok := m.seen[name]; !ok {
					m.seen[name] = struct{}{}
					m.processedRoots++
				}
			}
			if !n.Data().IsDir() {
				m.filesIndexed++
			}
			select {
			case m.msgCh <- indexProgressMsg{}:
			default:
			}
		}),
	)
	m.tree = t
	m.err = err
	m.indexingDone = true
	m.msgCh <- indexCompleteMsg{}
}

// Update processes Bubble Tea messages.
func (m *IndexProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			return m, tea.Quit
		}
	case indexProgressMsg:
		ratio := math.Min(float64(m.processedRoots)/float64(m.totalRoots), 1)
		cmd := m.progress.SetPercent(ratio)
		// Keep waiting so indexCompleteMsg can arrive.
		return m, tea.Batch(cmd, m.waitForMsg())
	case indexCompleteMsg:
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress UI.
func (m *IndexProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	header := fmt.Sprintf("Indexing %s library", m.label)
	stats := []string{
		fmt.Sprintf("Root: %s", m.root),
		fmt.Sprintf("Show folders processed: %d/%d", m.processedRoots, m.totalRoots),
		fmt.Sprintf("Files indexed: %d", m.filesIndexed),
	}

	panel := m.theme.PanelStyle()
	panelWidth := max(m.width-panel.GetHorizontalFrameSize(), 0)

	sections := []string{
		m.theme.HeaderStyle().Width(m.width).Render(header),
		m.progress.View(),
		panel.Width(panelWidth).Render(strings.Join(stats, "\n")),
		m.theme.StatusBarStyle().Width(m.width).Render("Indexing... please wait"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Tree returns the constructed tree.
func (m *IndexProgressModel) Tree() *treeview.Tree[treeview.FileInfo] { return m.tree }

// Err returns any build error.
func (m *IndexProgressModel) Err() error { return m.err }

// Done reports whether the walk ran to completion. False after the screen
// was dismissed with esc or ctrl+c mid-walk.
func (m *IndexProgressModel) Done() bool { return m.indexingDone }

// Root returns the absolute root the model indexed.
func (m *IndexProgressModel) Root() string { return m.root }
