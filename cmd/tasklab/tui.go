package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklab/internal/controller"
	"tasklab/internal/task"
)

// Messages flowing into the single Update loop. All state transitions happen
// there: poll snapshots, login and create results arrive as messages, never
// as direct mutations from another goroutine.
type (
	snapshotMsg  struct{ seq uint64 }
	loginDoneMsg struct{ err error }

	createDoneMsg struct {
		id  string
		err error
	}

	alertExpiredMsg struct{}
)

// workspace focus targets, cycled with tab.
const (
	focusLang = iota
	focusName
	focusCode
	focusList
	focusCount
)

type tuiModel struct {
	ctrl *controller.Controller

	// login form
	username   textinput.Model
	password   textinput.Model
	loginFocus int

	// create form
	lang textinput.Model
	name textinput.Model
	code textarea.Model

	focus  int
	tasks  []task.Record
	cursor int

	width  int
	height int
	busy   bool
}

func newTUIModel(ctrl *controller.Controller, defaultUsername string) tuiModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.SetValue(defaultUsername)
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	lang := textinput.New()
	lang.Placeholder = "lang (e.g. python)"
	lang.Focus()

	name := textinput.New()
	name.Placeholder = "name (optional)"

	code := textarea.New()
	code.Placeholder = "code"
	code.SetHeight(6)
	code.ShowLineNumbers = false

	return tuiModel{
		ctrl:     ctrl,
		username: username,
		password: password,
		lang:     lang,
		name:     name,
		code:     code,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.code.SetWidth(min(msg.Width-4, 100))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case snapshotMsg:
		m.tasks = m.ctrl.Tasks()
		if m.cursor >= len(m.tasks) {
			m.cursor = max(len(m.tasks)-1, 0)
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.focus = focusLang
			return m, m.expireAlertLater()
		}
		return m, m.expireAlertLater()

	case createDoneMsg:
		m.busy = false
		if msg.err == nil {
			// Mirror the form reset after a successful create.
			m.lang.SetValue("")
			m.name.SetValue("")
			m.code.SetValue("")
		}
		return m, m.expireAlertLater()

	case alertExpiredMsg:
		// Re-render; View consults the controller for alert visibility.
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m tuiModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ctrl.Panel() {
	case controller.PanelLogin:
		return m.updateLoginKey(msg)
	case controller.PanelWorkspace:
		return m.updateWorkspaceKey(msg)
	case controller.PanelDetail:
		return m.updateDetailKey(msg)
	}
	return m, nil
}

func (m tuiModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyDown, tea.KeyUp:
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.username.Focus()
			m.password.Blur()
		} else {
			m.password.Focus()
			m.username.Blur()
		}
		return m, nil

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.loginCmd(m.username.Value(), m.password.Value())
	}

	return m.updateInputs(msg)
}

func (m tuiModel) updateWorkspaceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		m.focus = (m.focus + 1) % focusCount
		m.syncWorkspaceFocus()
		return m, nil

	case tea.KeyShiftTab:
		m.focus = (m.focus + focusCount - 1) % focusCount
		m.syncWorkspaceFocus()
		return m, nil

	case tea.KeyCtrlS:
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.createCmd(m.lang.Value(), m.name.Value(), m.code.Value())
	}

	if m.focus == focusList {
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if m.cursor < len(m.tasks) {
				m.ctrl.SelectTask(m.tasks[m.cursor].ID())
				return m, m.expireAlertLater()
			}
			return m, nil
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m tuiModel) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyBackspace, tea.KeyEnter:
		m.ctrl.Back()
	}
	return m, nil
}

func (m *tuiModel) syncWorkspaceFocus() {
	m.lang.Blur()
	m.name.Blur()
	m.code.Blur()
	switch m.focus {
	case focusLang:
		m.lang.Focus()
	case focusName:
		m.name.Focus()
	case focusCode:
		m.code.Focus()
	}
}

func (m tuiModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	m.lang, cmd = m.lang.Update(msg)
	cmds = append(cmds, cmd)
	m.name, cmd = m.name.Update(msg)
	cmds = append(cmds, cmd)
	m.code, cmd = m.code.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m tuiModel) loginCmd(username, password string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := ctrl.Login(context.Background(), username, password)
		return loginDoneMsg{err: err}
	}
}

func (m tuiModel) createCmd(lang, name, code string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		id, err := ctrl.CreateTask(context.Background(), lang, name, code)
		return createDoneMsg{id: id, err: err}
	}
}

// expireAlertLater schedules a re-render just after the alert deadline so a
// visible alert disappears without user input.
func (m tuiModel) expireAlertLater() tea.Cmd {
	return tea.Tick(m.ctrl.AlertDuration()+50*time.Millisecond, func(time.Time) tea.Msg {
		return alertExpiredMsg{}
	})
}

// ─── View ───────────────────────────────────────────────────────────

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("tasklab") + "\n\n")

	if alert, visible := m.ctrl.ActiveAlert(); visible {
		b.WriteString(styleAlert.Render(alert) + "\n\n")
	}

	switch m.ctrl.Panel() {
	case controller.PanelLogin:
		m.viewLogin(&b)
	case controller.PanelWorkspace:
		m.viewWorkspace(&b)
	case controller.PanelDetail:
		m.viewDetail(&b)
	}

	return b.String()
}

func (m tuiModel) viewLogin(b *strings.Builder) {
	b.WriteString(styleLabel.Render("Username") + "\n" + m.username.View() + "\n")
	b.WriteString(styleLabel.Render("Password") + "\n" + m.password.View() + "\n\n")
	if m.busy {
		b.WriteString(styleHelp.Render("logging in...") + "\n")
		return
	}
	b.WriteString(styleHelp.Render("enter: log in · tab: switch field · ctrl+c: quit") + "\n")
}

func (m tuiModel) viewWorkspace(b *strings.Builder) {
	b.WriteString(styleLabel.Render("New task") + "\n")
	b.WriteString(m.lang.View() + "\n")
	b.WriteString(m.name.View() + "\n")
	b.WriteString(m.code.View() + "\n\n")

	b.WriteString(styleLabel.Render(fmt.Sprintf("Tasks (%d)", len(m.tasks))) + "\n")
	if len(m.tasks) == 0 {
		b.WriteString(styleHelp.Render("no tasks yet") + "\n")
	}
	for i, rec := range m.tasks {
		m.viewListRow(b, i, rec)
	}

	b.WriteString("\n" + styleHelp.Render(
		"tab: next field · ctrl+s: create task · enter on list: details · ctrl+c: quit") + "\n")
}

func (m tuiModel) viewListRow(b *strings.Builder, i int, rec task.Record) {
	prefix := "  "
	if m.focus == focusList && i == m.cursor {
		prefix = styleCursor.Render("> ")
	}

	name := rec.Name()
	rendered := name
	if name == "" {
		rendered = styleNoName.Render("no name")
	}

	b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
		prefix,
		rendered,
		styleState.Render(rec.State()),
		styleHelp.Render("#"+rec.ID()),
	))
}

// preformatted fields keep their whitespace in a block of their own.
func (m tuiModel) viewDetail(b *strings.Builder) {
	rec, ok := m.ctrl.Selected()
	if !ok {
		b.WriteString(styleError.Render("task no longer available") + "\n")
		return
	}

	for _, field := range rec.Fields() {
		value := task.FormatValue(field.Value)
		switch field.Key {
		case task.FieldCode, task.FieldStdout, task.FieldStderr:
			b.WriteString(styleFieldKey.Render(field.Key) + ":\n")
			b.WriteString(stylePre.Render(value) + "\n")
		default:
			b.WriteString(styleFieldKey.Render(field.Key) + ": " + value + "\n")
		}
	}

	b.WriteString("\n" + styleHelp.Render("esc: back · ctrl+c: quit") + "\n")
}
