package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// authForm is the login form; in register mode it also asks for an email.
type authForm struct {
	register bool
	focus    int

	name, email, password textinput.Model
}

func newAuthForm() authForm {
	input := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		return ti
	}
	f := authForm{
		name:     input("name"),
		email:    input("email (optional)"),
		password: input("password"),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	f.name.Focus()
	return f
}

func (f *authForm) fields() []*textinput.Model {
	if f.register {
		return []*textinput.Model{&f.name, &f.email, &f.password}
	}
	return []*textinput.Model{&f.name, &f.password}
}

func (f *authForm) setRegister(on bool) {
	f.register = on
	f.focusOn(0)
}

func (f *authForm) focusOn(i int) {
	fields := f.fields()
	f.focus = (i + len(fields)) % len(fields)
	for n, ti := range fields {
		if n == f.focus {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
	if !f.register {
		f.email.Blur()
	}
}

// reset empties the form, keeping name when it is given.
func (f *authForm) reset(name string) {
	f.name.SetValue(name)
	f.name.CursorEnd()
	f.email.SetValue("")
	f.password.SetValue("")
	if name != "" {
		f.focusOn(len(f.fields()) - 1)
	} else {
		f.focusOn(0)
	}
}

func (f *authForm) values() (name, email, password string) {
	return strings.TrimSpace(f.name.Value()), strings.TrimSpace(f.email.Value()), f.password.Value()
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	ti := f.fields()[f.focus]
	*ti, cmd = ti.Update(msg)
	return cmd
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.auth.setRegister(!m.auth.register)
		return m, nil
	case "tab", "down":
		m.auth.focusOn(m.auth.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.auth.focusOn(m.auth.focus - 1)
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		name, email, password := m.auth.values()
		if name == "" || password == "" {
			return m, m.setFlash(inputRequired, true)
		}
		if m.auth.register {
			return m, m.start(m.registerCmd(name, email, password))
		}
		return m, m.start(m.loginCmd(name, password))
	case "esc":
		if m.auth.register {
			m.auth.setRegister(false)
			return m, nil
		}
		return m, tea.Quit
	}
	return m, m.auth.update(msg)
}

func (m Model) authView() string {
	var b strings.Builder
	if m.auth.register {
		b.WriteString(m.st.title.Render("Create account") + "\n\n")
	} else {
		b.WriteString(m.st.title.Render("Log in") + "\n\n")
	}
	labels := []string{"Name", "Password"}
	if m.auth.register {
		labels = []string{"Name", "Email", "Password"}
	}
	for i, ti := range m.auth.fields() {
		b.WriteString(m.st.accent.Render(labels[i]) + "\n" + ti.View() + "\n")
	}
	toggle := "ctrl+r register"
	if m.auth.register {
		toggle = "ctrl+r back to login"
	}
	b.WriteString("\n" + m.st.help.Render("tab next • enter submit • "+toggle+" • ctrl+c quit"))
	return b.String()
}
