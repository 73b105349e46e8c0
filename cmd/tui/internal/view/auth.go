package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/ledger"
)

type authState int

const (
	authStateMenu authState = iota
	authStateLogin
	authStateCreate
)

// AuthModel is the pre-login screen for one bank: log in or open a new
// account.
type AuthModel struct {
	CommonModel
	bank *bank.Bank

	state  authState
	form   *huh.Form
	status string
}

func NewAuthModel(b *bank.Bank) AuthModel {
	return AuthModel{bank: b}
}

func (m AuthModel) Init() tea.Cmd {
	return nil
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == authStateMenu {
			switch msg.String() {
			case "1":
				m.state = authStateLogin
				m.form = buildCredentialsForm("Login")

				return m, m.form.Init()
			case "2":
				m.state = authStateCreate
				m.form = buildCredentialsForm("Create a New Account")

				return m, m.form.Init()
			case "esc", "3":
				return m, Back
			}

			return m, nil
		}

		if msg.Type == tea.KeyEsc {
			m.state = authStateMenu
			return m, nil
		}

	case authResultMsg:
		if msg.err != nil {
			m.state = authStateMenu
			m.status = "Invalid credentials. Please try again."

			return m, nil
		}

		return m, func() tea.Msg { return LoggedInMsg{AccountID: msg.accountID} }

	case createResultMsg:
		m.state = authStateMenu

		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("Account created. You can now log in with account number %s.", msg.accountID)
		case errors.Is(msg.err, ledger.ErrDuplicateAccount):
			m.status = "That account number already exists. Please choose a different one."
		case errors.Is(msg.err, ledger.ErrRecorderWrite):
			m.status = fmt.Sprintf("Account created, but the transaction log could not be written: %v", msg.err)
		default:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	if m.state == authStateMenu || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	id := m.form.GetString("id")
	password := m.form.GetString("password")
	state := m.state
	m.state = authStateMenu
	m.status = "Working..."

	switch state {
	case authStateLogin:
		return m, m.loginCmd(id, password)
	case authStateCreate:
		return m, m.createCmd(id, password)
	}

	return m, cmd
}

func (m AuthModel) View() string {
	if m.state != authStateMenu && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	body := fmt.Sprintf("Welcome to %s\n\n1. Login\n2. Create a New Account\n3. Back\n", m.bank.Name)
	if m.status != "" {
		body += "\n" + m.status + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func buildCredentialsForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("id").
				Title(title).
				Description("Bank Account Number").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("account number is required")
					}
					return nil
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

type authResultMsg struct {
	accountID string
	err       error
}

func (m AuthModel) loginCmd(id, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		acct, err := m.bank.Ledger.Authenticate(ctx, id, password)
		if err != nil {
			return authResultMsg{err: err}
		}

		return authResultMsg{accountID: acct.ID}
	}
}

type createResultMsg struct {
	accountID string
	err       error
}

func (m AuthModel) createCmd(id, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		acct, err := m.bank.Ledger.CreateAccount(ctx, id, ledger.PlainSecret(password), 0)
		if err != nil && !errors.Is(err, ledger.ErrRecorderWrite) {
			return createResultMsg{err: err}
		}

		return createResultMsg{accountID: acct.ID, err: err}
	}
}
