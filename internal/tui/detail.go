package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolists/internal/model"
)

// itemEntry adapts a model.Item to bubbles/list.Item
type itemEntry struct{ it *model.Item }

func (e itemEntry) FilterValue() string { return e.it.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(itemEntry)
	if !ok {
		return
	}
	box, text := d.st.muted.Render(d.st.boxUnchecked), e.it.Name
	if e.it.Completed {
		box = d.st.success.Render(d.st.boxChecked)
		text = d.st.done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprint(w, prefix+box+" "+text)
}

func (m Model) currentList() *model.List { return m.findList(m.current) }

func (m Model) selectedItem() *model.Item {
	if e, ok := m.itemView.SelectedItem().(itemEntry); ok {
		return e.it
	}
	return nil
}

// syncItems rebuilds the detail screen from the current list.
func (m *Model) syncItems() {
	l := m.currentList()
	if l == nil {
		m.itemView.SetItems(nil)
		return
	}
	entries := make([]list.Item, 0, len(l.Items))
	for _, it := range l.Items {
		entries = append(entries, itemEntry{it})
	}
	m.itemView.SetItems(entries)
	if n := len(entries); n > 0 && m.itemView.Index() >= n {
		m.itemView.Select(n - 1)
	}

	// header with live counts
	dn, pn := l.Stats()
	m.itemView.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		l.Name,
		m.st.success.Render("✔"), dn,
		m.st.pending.Render("•"), pn,
		m.st.accent.Render("Total"), len(l.Items),
	)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.itemView.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.itemView, cmd = m.itemView.Update(msg)
		return m, cmd
	}
	l := m.currentList()
	if l == nil {
		m.screen = screenLists
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.itemView.FilterState() == list.FilterApplied {
			m.itemView.ResetFilter()
			return m, nil
		}
		m.screen = screenLists
		m.syncLists()
		return m, nil
	case "a":
		m.editor.open(editAdd, 0, "", "New item name...")
		return m, nil
	case "e":
		if it := m.selectedItem(); it != nil {
			m.editor.open(editRename, it.ID, it.Name, "Item name...")
		}
		return m, nil
	case " ":
		if it := m.selectedItem(); it != nil && !m.busy {
			return m, m.start(m.toggleItemCmd(l.ID, it))
		}
		return m, nil
	case "d":
		if it := m.selectedItem(); it != nil && !m.busy {
			return m, m.start(m.deleteItemCmd(l.ID, it.ID))
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.itemView, cmd = m.itemView.Update(msg)
	return m, cmd
}

func (m Model) detailView() string {
	l := m.currentList()
	if l == nil {
		return ""
	}
	if len(l.Items) == 0 {
		return m.st.title.Render(l.Name) + "\n\n" + m.st.muted.Render("no items") + "\n\n" +
			m.st.help.Render("a add • esc back • ctrl+l logout")
	}
	return m.itemView.View()
}
