package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolists/internal/model"
)

// Every backend call finishes with exactly one of these messages.
type (
	meMsg struct {
		user *model.User
		err  error
	}
	loginMsg struct {
		user *model.User
		err  error
	}
	registerMsg struct {
		user *model.User
		err  error
	}
	logoutMsg struct{ err error }
	listsMsg  struct {
		lists []*model.List
		err   error
	}
	listSavedMsg struct {
		list *model.List
		err  error
	}
	listDeletedMsg struct {
		id  int
		err error
	}
	itemSavedMsg struct {
		listID int
		item   *model.Item
		err    error
	}
	itemDeletedMsg struct {
		listID, id int
		err        error
	}
)

// flashClearMsg expires the banner with the same sequence number.
type flashClearMsg struct{ seq int }

func clearFlashAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return flashClearMsg{seq: seq} })
}

func (m Model) meCmd() tea.Cmd {
	return func() tea.Msg {
		u, err := m.backend.Me(m.ctx)
		return meMsg{u, err}
	}
}

func (m Model) loginCmd(name, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := m.backend.Login(m.ctx, name, password)
		return loginMsg{u, err}
	}
}

func (m Model) registerCmd(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := m.backend.Register(m.ctx, name, email, password)
		return registerMsg{u, err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg { return logoutMsg{m.backend.Logout(m.ctx)} }
}

func (m Model) listsCmd() tea.Cmd {
	return func() tea.Msg {
		ls, err := m.backend.Lists(m.ctx)
		return listsMsg{ls, err}
	}
}

func (m Model) createListCmd(name string) tea.Cmd {
	return func() tea.Msg {
		l, err := m.backend.CreateList(m.ctx, name)
		return listSavedMsg{l, err}
	}
}

func (m Model) renameListCmd(id int, name string) tea.Cmd {
	return func() tea.Msg {
		l, err := m.backend.RenameList(m.ctx, id, name)
		return listSavedMsg{l, err}
	}
}

func (m Model) deleteListCmd(id int) tea.Cmd {
	return func() tea.Msg { return listDeletedMsg{id, m.backend.DeleteList(m.ctx, id)} }
}

func (m Model) createItemCmd(listID int, name string) tea.Cmd {
	return func() tea.Msg {
		it, err := m.backend.CreateItem(m.ctx, listID, name)
		return itemSavedMsg{listID, it, err}
	}
}

func (m Model) renameItemCmd(listID, id int, name string) tea.Cmd {
	return func() tea.Msg {
		it, err := m.backend.RenameItem(m.ctx, listID, id, name)
		return itemSavedMsg{listID, it, err}
	}
}

func (m Model) toggleItemCmd(listID int, it *model.Item) tea.Cmd {
	id, completed := it.ID, !it.Completed
	return func() tea.Msg {
		it, err := m.backend.SetItemCompleted(m.ctx, listID, id, completed)
		return itemSavedMsg{listID, it, err}
	}
}

func (m Model) deleteItemCmd(listID, id int) tea.Cmd {
	return func() tea.Msg { return itemDeletedMsg{listID, id, m.backend.DeleteItem(m.ctx, listID, id)} }
}
