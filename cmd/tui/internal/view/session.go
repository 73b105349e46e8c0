package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/ledger"
	"github.com/MrJamesThe3rd/teller/internal/money"
)

type sessionState int

const (
	sessionStateMenu sessionState = iota
	sessionStateAmount
)

type sessionOp int

const (
	opDeposit sessionOp = iota
	opWithdraw
)

// SessionModel is the post-login menu: deposit, withdraw, transfer, balance
// inquiry, logout.
type SessionModel struct {
	CommonModel
	bank      *bank.Bank
	accountID string

	state  sessionState
	op     sessionOp
	form   *huh.Form
	status string
}

func NewSessionModel(b *bank.Bank, accountID string) SessionModel {
	return SessionModel{bank: b, accountID: accountID}
}

func (m SessionModel) Init() tea.Cmd {
	return m.balanceCmd()
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == sessionStateMenu {
			switch msg.String() {
			case "1":
				return m.startAmountForm(opDeposit, "Deposit Amount")
			case "2":
				return m.startAmountForm(opWithdraw, "Withdraw Amount")
			case "3":
				return m, StartTransfer
			case "4":
				return m, m.balanceCmd()
			case "5", "esc":
				return m, Logout
			}

			return m, nil
		}

		if msg.Type == tea.KeyEsc {
			m.state = sessionStateMenu
			return m, nil
		}

	case opResultMsg:
		m.state = sessionStateMenu
		m.status = msg.describe()

		return m, nil
	}

	if m.state != sessionStateAmount || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = sessionStateMenu

	return m, m.mutateCmd(m.op, m.form.GetString("amount"))
}

func (m SessionModel) View() string {
	if m.state == sessionStateAmount && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	body := fmt.Sprintf(
		"%s — Account %s\n\n1. Deposit\n2. Withdraw\n3. Transfer\n4. Check Balance\n5. Logout\n",
		m.bank.Name, m.accountID,
	)
	if m.status != "" {
		body += "\n" + m.status + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m SessionModel) startAmountForm(op sessionOp, title string) (tea.Model, tea.Cmd) {
	m.state = sessionStateAmount
	m.op = op
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(title).
				Placeholder("100.00").
				Validate(func(s string) error {
					cents, err := money.Parse(s)
					if err != nil {
						return errors.New("enter a valid amount, e.g. 100.00")
					}
					if cents <= 0 {
						return errors.New("amount must be greater than zero")
					}
					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	return m, m.form.Init()
}

type opResultMsg struct {
	verb    string
	balance int64
	err     error
}

func (r opResultMsg) describe() string {
	switch {
	case r.err == nil:
		return fmt.Sprintf("%s successful. Balance: %s", r.verb, FormatAmount(r.balance))
	case errors.Is(r.err, ledger.ErrRecorderWrite):
		return fmt.Sprintf("%s successful. Balance: %s (warning: transaction log not written)", r.verb, FormatAmount(r.balance))
	case errors.Is(r.err, ledger.ErrInsufficientFunds):
		return "Insufficient balance."
	case errors.Is(r.err, ledger.ErrInvalidAmount):
		return "Invalid amount."
	default:
		return fmt.Sprintf("Error: %v", r.err)
	}
}

func (m SessionModel) mutateCmd(op sessionOp, amount string) tea.Cmd {
	return func() tea.Msg {
		cents, err := money.Parse(amount)
		if err != nil {
			return opResultMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		switch op {
		case opWithdraw:
			balance, err := m.bank.Ledger.Withdraw(ctx, m.accountID, cents)
			return opResultMsg{verb: "Withdrawal", balance: balance, err: err}
		default:
			balance, err := m.bank.Ledger.Deposit(ctx, m.accountID, cents)
			return opResultMsg{verb: "Deposit", balance: balance, err: err}
		}
	}
}

func (m SessionModel) balanceCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		balance, err := m.bank.Ledger.Balance(ctx, m.accountID)

		return opResultMsg{verb: "Balance inquiry", balance: balance, err: err}
	}
}
