package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalog "github.com/apimgr/catalog/src/model"
	"github.com/apimgr/catalog/src/presenter"
)

// Dracula palette
var (
	foreground = lipgloss.Color("#f8f8f2")
	selection  = lipgloss.Color("#44475a")
	comment    = lipgloss.Color("#6272a4")
	cyan       = lipgloss.Color("#8be9fd")
	green      = lipgloss.Color("#50fa7b")
	purple     = lipgloss.Color("#bd93f9")
	red        = lipgloss.Color("#ff5555")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(comment).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(foreground)

	selectedStyle = lipgloss.NewStyle().
			Foreground(green).
			Background(selection).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(cyan)

	helpStyle = lipgloss.NewStyle().
			Foreground(comment)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)
)

// listHeight is the number of rows shown before the list scrolls
const listHeight = 10

// Lister is the part of the catalog client the browser needs
type Lister interface {
	GetAllProducts(ctx context.Context) ([]catalog.Product, error)
}

type model struct {
	ctx      context.Context
	client   Lister
	input    textinput.Model
	viewport viewport.Model
	products []catalog.Product
	visible  []catalog.Product
	cursor   int
	err      error
	loading  bool
	width    int
	height   int
}

type productsMsg struct {
	products []catalog.Product
	err      error
}

func initialModel(ctx context.Context, client Lister) model {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or category..."
	ti.Focus()
	ti.Width = 50

	return model{
		ctx:      ctx,
		client:   client,
		input:    ti,
		viewport: viewport.New(80, 12),
		loading:  true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.refreshDetail()
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			m.refreshDetail()
			return m, nil
		case "ctrl+r":
			m.loading = true
			return m, m.fetch
		case "esc":
			m.input.SetValue("")
			m.applyFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - listHeight - 8
		if h < 3 {
			h = 3
		}
		m.viewport = viewport.New(msg.Width, h)
		m.refreshDetail()

	case productsMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.products = msg.products
		}
		m.applyFilter()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.input.Value() != before {
		m.applyFilter()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) fetch() tea.Msg {
	products, err := m.client.GetAllProducts(m.ctx)
	return productsMsg{products: products, err: err}
}

// applyFilter narrows the list to products whose title or category
// contains the filter text, case-insensitively.
func (m *model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))

	m.visible = nil
	for _, p := range m.products {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			m.visible = append(m.visible, p)
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.refreshDetail()
}

func (m *model) refreshDetail() {
	m.viewport.SetContent(m.renderDetail())
	m.viewport.GotoTop()
}

// selected returns the product under the cursor
func (m model) selected() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Product{}, false
	}
	return m.visible[m.cursor], true
}

func (m model) renderList() string {
	if len(m.visible) == 0 {
		return helpStyle.Render("No products found")
	}

	// Keep the cursor inside the window.
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := start + listHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		p := m.visible[i]
		line := fmt.Sprintf("%3d. %s  $%s", p.ID, p.Title, presenter.FormatPrice(p.Price))
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString(itemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(fmt.Sprintf("%d of %d products", len(m.visible), len(m.products))))
	return sb.String()
}

func (m model) renderDetail() string {
	p, ok := m.selected()
	if !ok {
		return ""
	}

	lines := []string{
		fmt.Sprintf("ID: %d", p.ID),
		fmt.Sprintf("Title: %s", p.Title),
		fmt.Sprintf("Price: $%s", presenter.FormatPrice(p.Price)),
		fmt.Sprintf("Category: %s", p.Category),
		fmt.Sprintf("Description: %s", p.Description),
		fmt.Sprintf("Rating: %s (%d reviews)", presenter.FormatRate(p), p.RatingCount()),
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Product Catalog"))
	sb.WriteString("\n\n")

	sb.WriteString(inputStyle.Render(m.input.View()))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(helpStyle.Render("Loading products..."))
	case m.err != nil:
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	default:
		sb.WriteString(m.renderList())
		sb.WriteString("\n\n")
		sb.WriteString(m.viewport.View())
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓: select • Esc: clear filter • Ctrl+R: reload • Ctrl+C: quit"))

	return sb.String()
}

// Run starts the catalog browser and blocks until the user quits
func Run(ctx context.Context, client Lister) error {
	p := tea.NewProgram(initialModel(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
