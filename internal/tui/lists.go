package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolists/internal/model"
)

// listEntry adapts a model.List to bubbles/list.Item
type listEntry struct{ l *model.List }

func (e listEntry) FilterValue() string { return e.l.Name }

type listDelegate struct{ st styles }

func (d listDelegate) Height() int                               { return 1 }
func (d listDelegate) Spacing() int                              { return 0 }
func (d listDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(listEntry)
	if !ok {
		return
	}
	done, pending := e.l.Stats()
	counts := d.st.muted.Render(fmt.Sprintf("%d/%d", done, done+pending))
	name := e.l.Name
	if e.l.AllCompleted() {
		name = d.st.done.Render(name)
		counts = d.st.success.Render(fmt.Sprintf("%d/%d", done, done+pending))
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s  %s", prefix, name, counts)
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	openBind    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	backBind    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	refreshBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	logoutBind  = key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout"))
)

func newListView(st styles, title string, delegate list.ItemDelegate, binds ...key.Binding) list.Model {
	l := list.New(nil, delegate, 76, 16)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }
	return l
}

func (m Model) selectedList() *model.List {
	if e, ok := m.listView.SelectedItem().(listEntry); ok {
		return e.l
	}
	return nil
}

func (m Model) findList(id int) *model.List {
	for _, l := range m.lists {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// syncLists rebuilds the lists screen from m.lists.
func (m *Model) syncLists() {
	entries := make([]list.Item, 0, len(m.lists))
	for _, l := range m.lists {
		entries = append(entries, listEntry{l})
	}
	m.listView.SetItems(entries)
	if n := len(entries); n > 0 && m.listView.Index() >= n {
		m.listView.Select(n - 1)
	}
}

func (m Model) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listView.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "a":
		m.editor.open(editAdd, 0, "", "New list name...")
		return m, nil
	case "e":
		if l := m.selectedList(); l != nil {
			m.editor.open(editRename, l.ID, l.Name, "List name...")
		}
		return m, nil
	case "d":
		if l := m.selectedList(); l != nil && !m.busy {
			return m, m.start(m.deleteListCmd(l.ID))
		}
		return m, nil
	case "r":
		if !m.busy {
			return m, m.start(m.listsCmd())
		}
		return m, nil
	case "enter":
		if l := m.selectedList(); l != nil {
			m.screen = screenDetail
			m.current = l.ID
			m.itemView.ResetFilter()
			m.itemView.Select(0)
			m.syncItems()
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	return m, cmd
}

func (m Model) listsView() string {
	if len(m.lists) == 0 {
		return m.st.title.Render("Lists") + "\n\n" + m.st.muted.Render("no lists") + "\n\n" +
			m.st.help.Render("a add • r refresh • ctrl+l logout • q quit")
	}
	return m.listView.View()
}
