// Package composer is the interactive terminal page builder: a section list
// with keyboard reordering, a generated field editor and a live preview, all
// driven through the builder store.
package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/editor"
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
)

// Store is the part of *builder.Store the composer drives.
type Store interface {
	builder.Dispatcher
	Subscribe(fn func(builder.State)) func()
}

// Saver persists the working copy. *workspace.Workspace satisfies it.
type Saver interface {
	SaveState(state builder.State) (workspace.Document, error)
}

// Option configures a Model.
type Option func(*Model)

// WithSaver enables saving with the save key.
func WithSaver(s Saver) Option {
	return func(m *Model) { m.saver = s }
}

// WithEditorOptions forwards options to every section editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(m *Model) { m.editorOpts = append(m.editorOpts, opts...) }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// row is one line of the field editor. Item is set for controls that belong to
// an array element so the element can be removed or moved.
type row struct {
	group   string
	control editor.Control
	depth   int
	item    *itemRef
}

type itemRef struct {
	array editor.Path
	index int
	count int
}

// Model is the composer's bubbletea model.
type Model struct {
	ctx        context.Context
	store      Store
	reorder    *builder.ReorderController
	saver      Saver
	editorOpts []editor.Option

	changes     chan struct{}
	unsubscribe func()

	state    builder.State
	viewMode ViewMode
	cursor   int

	// Field editor
	editor      *editor.Editor
	rows        []row
	fieldCursor int
	input       textinput.Model
	inputActive bool

	// Add dialog
	addTypes  []string
	addCursor int

	confirmID string

	showPreview bool
	unsaved     bool
	status      string
	showError   bool
	errorMsg    string

	help   help.Model
	width  int
	height int
}

// New creates a composer over store. The store must already hold a theme.
func New(ctx context.Context, store Store, opts ...Option) Model {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 512

	m := Model{
		ctx:         ctx,
		store:       store,
		reorder:     builder.NewReorderController(store),
		changes:     make(chan struct{}, 1),
		state:       store.State(),
		viewMode:    ViewList,
		input:       input,
		showPreview: true,
		help:        help.New(),
		width:       80,
		height:      24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	changes := m.changes
	m.unsubscribe = store.Subscribe(func(builder.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Init starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Close removes the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the builder state the model last observed.
func (m Model) State() builder.State { return m.state }

// Mode returns the current view mode.
func (m Model) Mode() ViewMode { return m.viewMode }

// Cursor returns the index of the highlighted section.
func (m Model) Cursor() int { return m.cursor }

// Editor returns the open section editor, if any.
func (m Model) Editor() *editor.Editor { return m.editor }

// Unsaved reports whether commands were applied since the last save.
func (m Model) Unsaved() bool { return m.unsaved }

func (m *Model) body() []page.Section {
	p, ok := m.state.SelectedPage()
	if !ok {
		return nil
	}
	return p.Body
}

func (m *Model) current() (page.Section, bool) {
	body := m.body()
	if m.cursor < 0 || m.cursor >= len(body) {
		return page.Section{}, false
	}
	return body[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.body())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) dispatch(cmd builder.Command) bool {
	state, err := m.store.Dispatch(m.ctx, cmd)
	m.state = state
	if err != nil {
		m.fail(err)
		return false
	}
	if _, selecting := cmd.(builder.SetSelectedSection); !selecting {
		m.unsaved = true
	}
	m.clampCursor()
	return true
}

func (m *Model) fail(err error) {
	m.showError = true
	m.errorMsg = err.Error()
}

func (m *Model) clearError() {
	m.showError = false
	m.errorMsg = ""
}

// refreshRows rebuilds the editor rows from the draft.
func (m *Model) refreshRows() {
	m.rows = m.rows[:0]
	if m.editor == nil {
		return
	}
	for _, g := range m.editor.Groups() {
		for _, c := range g.Controls {
			start := len(m.rows)
			m.rows = appendRows(m.rows, c, 0, nil)
			m.rows[start].group = g.Name
		}
	}
	if m.fieldCursor >= len(m.rows) {
		m.fieldCursor = len(m.rows) - 1
	}
	if m.fieldCursor < 0 {
		m.fieldCursor = 0
	}
}

func appendRows(rows []row, c editor.Control, depth int, item *itemRef) []row {
	rows = append(rows, row{control: c, depth: depth, item: item})
	for _, it := range c.Items {
		ref := &itemRef{array: c.Path, index: it.Index, count: len(c.Items)}
		for _, sub := range it.Controls {
			rows = appendRows(rows, sub, depth+1, ref)
		}
	}
	return rows
}

func (m *Model) currentRow() (row, bool) {
	if m.fieldCursor < 0 || m.fieldCursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.fieldCursor], true
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "on"
		}
		return "off"
	case []any:
		return fmt.Sprintf("(%d items)", len(value))
	case map[string]any:
		return fmt.Sprintf("{%d fields}", len(value))
	default:
		if n, ok := schema.ToFloat(value); ok {
			return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", n), "0"), ".")
		}
		return fmt.Sprint(value)
	}
}
