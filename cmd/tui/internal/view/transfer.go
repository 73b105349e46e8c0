package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/ledger"
	"github.com/MrJamesThe3rd/teller/internal/money"
	"github.com/MrJamesThe3rd/teller/internal/transfer"
)

type transferState int

const (
	transferStateForm transferState = iota
	transferStateInitiating
	transferStatePrompt
	transferStateResult
)

// TransferModel walks one transfer attempt: destination and amount, then the
// code prompt, then the outcome. Backing out at the prompt abandons the
// pending transfer without touching any balance.
type TransferModel struct {
	CommonModel
	bank      *bank.Bank
	accountID string

	state transferState
	form  *huh.Form

	pending   *transfer.Pending
	codeInput textinput.Model
	status    string
	summary   string
}

func NewTransferModel(b *bank.Bank, accountID string) TransferModel {
	ti := textinput.New()
	ti.Placeholder = "1234"
	ti.CharLimit = 4
	ti.Width = 10

	return TransferModel{
		bank:      b,
		accountID: accountID,
		codeInput: ti,
		form:      buildTransferForm(accountID),
	}
}

func (m TransferModel) Init() tea.Cmd {
	return m.form.Init()
}

func buildTransferForm(accountID string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("destination").
				Title("Transfer To").
				Description("Destination account number").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("destination is required")
					}
					if s == accountID {
						return errors.New("cannot transfer to your own account")
					}
					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
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
	).WithWidth(50).WithShowHelp(false)
}

func (m TransferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case transferStatePrompt:
			switch msg.Type {
			case tea.KeyEsc:
				// Operator aborted at the prompt: the code is never checked.
				m.bank.Transfers.Abandon(m.pending)
				return m, Back
			case tea.KeyEnter:
				return m.submitCode()
			}

		case transferStateResult:
			if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
				return m, Back
			}

			return m, nil

		case transferStateForm:
			if msg.Type == tea.KeyEsc {
				return m, Back
			}
		}

	case initiatedMsg:
		if msg.err != nil {
			m.state = transferStateResult
			m.summary = describeTransferErr(msg.err)

			return m, nil
		}

		m.pending = msg.pending
		m.state = transferStatePrompt
		m.codeInput.SetValue("")
		m.codeInput.Focus()

		return m, textinput.Blink

	case verifiedMsg:
		m.state = transferStateResult
		m.summary = msg.describe()

		return m, nil
	}

	switch m.state {
	case transferStateForm:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = transferStateInitiating

		return m, m.initiateCmd(m.form.GetString("destination"), m.form.GetString("amount"))

	case transferStatePrompt:
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TransferModel) submitCode() (tea.Model, tea.Cmd) {
	code, err := strconv.Atoi(strings.TrimSpace(m.codeInput.Value()))
	if err != nil {
		m.status = "Invalid code format."
		m.codeInput.SetValue("")

		return m, nil
	}

	return m, m.verifyCmd(m.pending, code)
}

func (m TransferModel) View() string {
	switch m.state {
	case transferStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case transferStateInitiating:
		return lipgloss.NewStyle().Padding(1).Render("Generating code...")

	case transferStatePrompt:
		body := fmt.Sprintf(
			"Transfer %s from %s to %s\n\nCode generated: %04d (in a real system this would be sent via SMS)\n\nEnter the code to verify:\n%s\n",
			FormatAmount(m.pending.Amount), m.pending.SourceID, m.pending.DestID,
			m.pending.Code, m.codeInput.View(),
		)
		if m.status != "" {
			body += "\n" + m.status
		}

		body += "\n(Enter to confirm, Esc to cancel the transfer)"

		return lipgloss.NewStyle().Padding(1).Render(body)

	case transferStateResult:
		return lipgloss.NewStyle().Padding(1).Render(m.summary + "\n\n(Enter or Esc to go back)")
	}

	return ""
}

type initiatedMsg struct {
	pending *transfer.Pending
	err     error
}

func (m TransferModel) initiateCmd(destination, amount string) tea.Cmd {
	return func() tea.Msg {
		cents, err := money.Parse(amount)
		if err != nil {
			return initiatedMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		p, err := m.bank.Transfers.Initiate(ctx, m.accountID, destination, cents)

		return initiatedMsg{pending: p, err: err}
	}
}

type verifiedMsg struct {
	committed *transfer.Committed
	err       error
}

func (r verifiedMsg) describe() string {
	switch {
	case r.err == nil:
		return fmt.Sprintf(
			"Transfer complete. Sent %s to %s.\nYour balance: %s",
			FormatAmount(r.committed.Amount), r.committed.DestID, FormatAmount(r.committed.SourceBalance),
		)
	case errors.Is(r.err, ledger.ErrRecorderWrite):
		return fmt.Sprintf(
			"Transfer complete. Sent %s to %s.\nYour balance: %s\n(warning: transaction log not written)",
			FormatAmount(r.committed.Amount), r.committed.DestID, FormatAmount(r.committed.SourceBalance),
		)
	default:
		return describeTransferErr(r.err)
	}
}

func describeTransferErr(err error) string {
	switch {
	case errors.Is(err, transfer.ErrCodeMismatch):
		return "Invalid code. Transfer cancelled."
	case errors.Is(err, transfer.ErrExpiredChallenge):
		return "The code has expired. Transfer cancelled."
	case errors.Is(err, transfer.ErrSelfTransfer):
		return "Cannot transfer to the same account."
	case errors.Is(err, ledger.ErrUnknownAccount):
		return "Destination account not found."
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "Insufficient balance."
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Invalid amount."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func (m TransferModel) verifyCmd(p *transfer.Pending, code int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		committed, err := m.bank.Transfers.Verify(ctx, p, code)

		return verifiedMsg{committed: committed, err: err}
	}
}
