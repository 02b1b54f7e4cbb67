// Package tui is the interactive to-do client: log in or register, browse
// lists and manage their items against the REST backend.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todolists/internal/api"
	"github.com/idilsaglam/todolists/internal/logging"
	"github.com/idilsaglam/todolists/internal/model"
)

const inputRequired = "Input Required"

type screen int

const (
	screenLoading screen = iota
	screenAuth
	screenLists
	screenDetail
)

func (s screen) String() string {
	return [...]string{"loading", "auth", "lists", "detail"}[s]
}

type Options struct {
	Theme string
	// FlashDelay is how long a banner stays up; defaults to one second.
	FlashDelay time.Duration
	Logger     logrus.FieldLogger

	// OnLogin runs after a successful login, e.g. to persist the session.
	OnLogin func(*model.User) error
	// OnLogout runs once the backend has ended the session.
	OnLogout func() error
	// LogoutBlocked, when set, is shown instead of logging out. Used for a
	// token the user configured outside the app.
	LogoutBlocked string
}

type flash struct {
	text  string
	isErr bool
	seq   int
}

type editMode int

const (
	editNone editMode = iota
	editAdd
	editRename
)

// editor is the inline input shared by add and rename on both list screens.
type editor struct {
	mode   editMode
	target int
	ti     textinput.Model
}

func (e *editor) open(mode editMode, target int, value, placeholder string) {
	e.mode, e.target = mode, target
	e.ti.SetValue(value)
	e.ti.CursorEnd()
	e.ti.Placeholder = placeholder
	e.ti.Focus()
}

func (e *editor) close() {
	e.mode, e.target = editNone, 0
	e.ti.SetValue("")
	e.ti.Blur()
}

// Model is the Bubble Tea model for the whole application.
type Model struct {
	ctx     context.Context
	backend Backend
	opts    Options
	st      styles
	log     logrus.FieldLogger

	screen  screen
	user    *model.User
	lists   []*model.List
	current int // id of the list on the detail screen

	auth     authForm
	listView list.Model
	itemView list.Model
	editor   editor

	busy    bool
	spinner spinner.Model
	flash   flash

	width, height int
}

func New(ctx context.Context, b Backend, opts Options) Model {
	if opts.FlashDelay <= 0 {
		opts.FlashDelay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	st := newStyles(opts.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.accent

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return Model{
		ctx:      ctx,
		backend:  b,
		opts:     opts,
		st:       st,
		log:      opts.Logger,
		screen:   screenLoading,
		auth:     newAuthForm(),
		listView: newListView(st, "Lists", listDelegate{st}, addBind, editBind, deleteBind, openBind, refreshBind, logoutBind),
		itemView: newListView(st, "", itemDelegate{st}, addBind, editBind, toggleBind, deleteBind, backBind, logoutBind),
		editor:   editor{ti: ti},
		busy:     true,
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// Init asks the backend who we are; the answer picks the first screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.meCmd())
}

// start marks a request in flight.
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	return tea.Batch(m.spinner.Tick, cmd)
}

// setFlash shows a banner and schedules its removal. A newer banner
// invalidates the pending removal of an older one.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flash.seq++
	m.flash.text, m.flash.isErr = text, isErr
	return clearFlashAfter(m.opts.FlashDelay, m.flash.seq)
}

// fail reports err. An expired session sends the user back to the login form.
func (m *Model) fail(op string, err error) tea.Cmd {
	m.log.WithError(err).WithField("op", op).Warn("request failed")
	if errors.Is(err, model.Unauthorized) && m.screen != screenAuth {
		m.signedOut()
	}
	return m.setFlash(api.Describe(err), true)
}

func (m *Model) signedOut() {
	m.user, m.lists, m.current = nil, nil, 0
	m.screen = screenAuth
	m.editor.close()
	m.syncLists()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case flashClearMsg:
		if msg.seq == m.flash.seq {
			m.flash.text = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)

	case meMsg:
		m.busy = false
		switch {
		case msg.err == nil:
			m.user = msg.user
			m.screen = screenLists
			return m, m.start(m.listsCmd())
		case errors.Is(msg.err, model.Unauthorized):
			m.screen = screenAuth
			return m, nil
		default:
			m.screen = screenLists
			return m, m.fail("me", msg.err)
		}
	case loginMsg:
		m.busy = false
		if msg.err != nil {
			m.auth.password.SetValue("")
			return m, m.fail("login", msg.err)
		}
		m.user = msg.user
		m.log.WithField("user", m.user.Name).Info("logged in")
		if m.opts.OnLogin != nil {
			if err := m.opts.OnLogin(m.user); err != nil {
				m.log.WithError(err).Warn("could not save session")
			}
		}
		m.auth.reset("")
		m.screen = screenLists
		return m, tea.Batch(m.setFlash("Welcome "+m.user.Name, false), m.start(m.listsCmd()))
	case registerMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("register", msg.err)
		}
		m.log.WithField("user", msg.user.Name).Info("registered")
		m.auth.register = false
		m.auth.reset(msg.user.Name)
		return m, m.setFlash("Account created, please log in", false)
	case logoutMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, model.Unauthorized) {
			return m, m.fail("logout", msg.err)
		}
		m.log.Info("logged out")
		m.backend.ClearToken()
		if m.opts.OnLogout != nil {
			if err := m.opts.OnLogout(); err != nil {
				m.log.WithError(err).Warn("could not remove session")
			}
		}
		m.signedOut()
		return m, m.setFlash("Logged out", false)

	case listsMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("lists", msg.err)
		}
		m.lists = msg.lists
		m.syncLists()
		if m.screen == screenDetail {
			if m.currentList() == nil {
				m.screen = screenLists
			} else {
				m.syncItems()
			}
		}
		return m, nil
	case listSavedMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("save list", msg.err)
		}
		note := "List renamed"
		if l := m.findList(msg.list.ID); l != nil {
			l.Name, l.Completed, l.UpdatedAt = msg.list.Name, msg.list.Completed, msg.list.UpdatedAt
		} else {
			m.lists = append(m.lists, msg.list)
			note = "List created"
		}
		m.syncLists()
		return m, m.setFlash(note, false)
	case listDeletedMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("delete list", msg.err)
		}
		for i, l := range m.lists {
			if l.ID == msg.id {
				m.lists = append(m.lists[:i], m.lists[i+1:]...)
				break
			}
		}
		m.syncLists()
		return m, m.setFlash("List deleted", false)
	case itemSavedMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("save item", msg.err)
		}
		l := m.findList(msg.listID)
		if l == nil {
			return m, nil
		}
		prev := l.Item(msg.item.ID)
		l.ReplaceItem(msg.item)
		m.syncItems()
		m.syncLists()
		switch {
		case prev == nil:
			return m, m.setFlash("Item added", false)
		case prev.Name != msg.item.Name:
			return m, m.setFlash("Item renamed", false)
		}
		return m, nil
	case itemDeletedMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.fail("delete item", msg.err)
		}
		if l := m.findList(msg.listID); l != nil {
			l.RemoveItem(msg.id)
		}
		m.syncItems()
		m.syncLists()
		return m, m.setFlash("Item deleted", false)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editor.mode != editNone {
		return m.updateEditor(msg)
	}
	if msg.String() == "ctrl+l" {
		switch {
		case m.user == nil || m.busy:
		case m.opts.LogoutBlocked != "":
			return m, m.setFlash(m.opts.LogoutBlocked, true)
		default:
			return m, m.start(m.logoutCmd())
		}
		return m, nil
	}

	switch m.screen {
	case screenAuth:
		return m.updateAuth(msg)
	case screenLists:
		return m.updateLists(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.close()
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		name := strings.TrimSpace(m.editor.ti.Value())
		if name == "" {
			return m, m.setFlash(inputRequired, true)
		}
		mode, target := m.editor.mode, m.editor.target
		m.editor.close()

		if m.screen == screenLists {
			if mode == editAdd {
				return m, m.start(m.createListCmd(name))
			}
			return m, m.start(m.renameListCmd(target, name))
		}
		if mode == editAdd {
			return m, m.start(m.createItemCmd(m.current, name))
		}
		return m, m.start(m.renameItemCmd(m.current, target, name))
	}
	var cmd tea.Cmd
	m.editor.ti, cmd = m.editor.ti.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	// header, flash and the inline editor share the panel with the list
	w, h := m.width-4, m.height-11
	if h < 3 {
		h = 3
	}
	m.listView.SetSize(w, h)
	m.itemView.SetSize(w, h)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView() + "\n\n")

	switch m.screen {
	case screenLoading:
		b.WriteString(m.spinner.View() + " Loading...")
	case screenAuth:
		b.WriteString(m.authView())
	case screenLists:
		b.WriteString(m.listsView())
	case screenDetail:
		b.WriteString(m.detailView())
	}

	if m.editor.mode != editNone {
		title := "Add"
		if m.editor.mode == editRename {
			title = "Rename"
		}
		b.WriteString("\n" + m.st.input.Render(title+"\n"+m.editor.ti.View()))
	}
	if m.flash.text != "" {
		style := m.st.success
		if m.flash.isErr {
			style = m.st.err
		}
		b.WriteString("\n" + style.Render(m.flash.text))
	}
	return m.st.panel.Render(b.String())
}

func (m Model) headerView() string {
	parts := []string{m.st.title.Render("Todo")}
	if m.user != nil {
		parts = append(parts, "Hello "+m.st.accent.Render(m.user.Name), m.st.help.Render("ctrl+l logout"))
	}
	if m.busy {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "   ")
}
