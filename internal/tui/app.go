// Package tui is the interactive terminal flow: pick proteins, pick
// domains, pick a shape, and write the rendered SVG.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
	"github.com/protplot/protplot/internal/track"
)

type screen int

const (
	screenProteins screen = iota
	screenDomains
	screenShape
	screenResult
)

// Options wires the parsed file and render settings into the flow.
type Options struct {
	FileName string
	Result   *gff.Result
	Colors   *palette.Assignment
	Width    int
	OutPath  string
}

type checkItem struct {
	name    string
	desc    string
	checked bool
}

func (i checkItem) Title() string {
	mark := "[ ]"
	if i.checked {
		mark = "[x]"
	}
	return mark + " " + i.name
}
func (i checkItem) Description() string { return i.desc }
func (i checkItem) FilterValue() string { return i.name }

type shapeItem struct {
	shape track.Shape
}

func (i shapeItem) Title() string       { return i.shape.Label() }
func (i shapeItem) Description() string { return "" }
func (i shapeItem) FilterValue() string { return i.shape.Label() }

type model struct {
	theme Theme
	opts  Options

	scr  screen
	lst  list.Model
	size tea.WindowSizeMsg

	// Selections in toggle order, so lane order follows the user.
	proteins []string
	domains  []string
	shape    track.Shape

	status string
	err    error
}

// Run drives the selection flow and writes the figure on completion.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func newModel(opts Options) model {
	m := model{
		theme: DefaultTheme(),
		opts:  opts,
		scr:   screenProteins,
		shape: track.ShapeRectangle,
	}
	m.lst = newList("Select proteins", proteinItems(opts.Result))
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func proteinItems(result *gff.Result) []list.Item {
	var items []list.Item
	for _, id := range result.ProteinList() {
		hits := len(result.RecordsFor(id))
		items = append(items, checkItem{name: id, desc: fmt.Sprintf("%d domain hits", hits)})
	}
	return items
}

func domainItems(result *gff.Result) []list.Item {
	counts := result.DomainCounts()
	var items []list.Item
	for _, name := range result.DomainList() {
		items = append(items, checkItem{name: name, desc: fmt.Sprintf("%d hits", counts[name])})
	}
	return items
}

func shapeItems() []list.Item {
	var items []list.Item
	for _, s := range track.Shapes {
		items = append(items, shapeItem{shape: s})
	}
	return items
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
		m.lst.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.lst.FilterState() != list.Filtering {
				return m, tea.Quit
			}

		case " ":
			if m.scr == screenProteins || m.scr == screenDomains {
				return m.toggleCurrent(), nil
			}

		case "enter":
			return m.advance()

		case "esc":
			return m.back(), nil
		}
	}

	var cmd tea.Cmd
	m.lst, cmd = m.lst.Update(msg)
	return m, cmd
}

// toggleCurrent flips the highlighted item and records toggle order.
func (m model) toggleCurrent() model {
	it, ok := m.lst.SelectedItem().(checkItem)
	if !ok {
		return m
	}
	it.checked = !it.checked
	m.lst.SetItem(m.lst.Index(), it)

	sel := &m.proteins
	if m.scr == screenDomains {
		sel = &m.domains
	}
	if it.checked {
		*sel = append(*sel, it.name)
	} else {
		*sel = remove(*sel, it.name)
	}
	return m
}

func (m model) advance() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenProteins:
		if len(m.proteins) == 0 {
			m.status = "select at least one protein (space toggles)"
			return m, nil
		}
		m.scr = screenDomains
		m.status = ""
		m.lst = newList("Select domains", domainItems(m.opts.Result))
		m.lst.SetSize(m.size.Width-4, m.size.Height-8)
		return m, nil

	case screenDomains:
		if len(m.domains) == 0 {
			m.status = "select at least one domain (space toggles)"
			return m, nil
		}
		m.scr = screenShape
		m.status = ""
		m.lst = newList("Select shape", shapeItems())
		m.lst.SetSize(m.size.Width-4, m.size.Height-8)
		return m, nil

	case screenShape:
		if it, ok := m.lst.SelectedItem().(shapeItem); ok {
			m.shape = it.shape
		}
		m.scr = screenResult
		m.status = m.render()
		return m, nil

	default:
		return m, tea.Quit
	}
}

func (m model) back() model {
	switch m.scr {
	case screenDomains:
		m.scr = screenProteins
		m.domains = nil
		m.lst = newList("Select proteins", m.restoreChecked(proteinItems(m.opts.Result), m.proteins))
	case screenShape:
		m.scr = screenDomains
		m.lst = newList("Select domains", m.restoreChecked(domainItems(m.opts.Result), m.domains))
	case screenResult:
		m.scr = screenShape
		m.status = ""
		m.lst = newList("Select shape", shapeItems())
	}
	m.lst.SetSize(m.size.Width-4, m.size.Height-8)
	return m
}

// restoreChecked re-applies checkmarks when navigating back.
func (m model) restoreChecked(items []list.Item, selected []string) []list.Item {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}
	for i, it := range items {
		ci := it.(checkItem)
		ci.checked = sel[ci.name]
		items[i] = ci
	}
	return items
}

// render draws the figure and writes it to the output path.
func (m *model) render() string {
	m.opts.Colors.Ensure(m.domains)

	svg, err := track.Render(track.Request{
		Records:  m.opts.Result.Records,
		Proteins: m.proteins,
		Domains:  m.domains,
		Shape:    m.shape,
		Colors:   m.opts.Colors,
	}, &track.Options{Width: m.opts.Width, Title: "Protein domain tracks"})
	if errors.Is(err, track.ErrNoData) {
		return "No domain data found for the selected proteins and domains."
	}
	if err != nil {
		m.err = err
		return "render failed: " + err.Error()
	}

	if err := os.WriteFile(m.opts.OutPath, []byte(svg), 0644); err != nil {
		m.err = err
		return "write failed: " + err.Error()
	}
	return "Wrote " + m.opts.OutPath
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("protplot — "+m.opts.FileName) + "\n\n")

	if m.scr == screenResult {
		style := m.theme.Status
		if m.err != nil {
			style = m.theme.Error
		}
		b.WriteString(style.Render(m.status) + "\n\n")
		b.WriteString(m.theme.Help.Render("enter/q: quit  esc: back"))
		return b.String()
	}

	b.WriteString(m.lst.View() + "\n")
	if m.status != "" {
		b.WriteString(m.theme.Error.Render(m.status) + "\n")
	}
	b.WriteString(m.theme.Help.Render("space: toggle  enter: next  esc: back  q: quit"))
	return b.String()
}

func remove(values []string, v string) []string {
	out := values[:0]
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
