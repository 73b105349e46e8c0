package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/teller/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/config"
)

type model struct {
	banks *bank.Set

	currentView View
	currentBank *bank.Bank
	accountID   string

	authView     view.AuthModel
	sessionView  view.SessionModel
	transferView view.TransferModel
}

type View int

const (
	ViewBanks    View = 0
	ViewAuth     View = 1
	ViewSession  View = 2
	ViewTransfer View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	banks := make([]*bank.Bank, 0, len(cfg.Banks.Names))

	for i, name := range cfg.Banks.Names {
		opts := bank.Options{
			Name:    name,
			LogFile: cfg.LogFile(name),
			CodeTTL: cfg.Transfer.CodeTTL,
		}
		if cfg.Banks.SeedDemo {
			opts.Seeds = bank.DemoSeeds(i)
		}

		b, err := bank.New(opts)
		if err != nil {
			slog.Error("failed to set up bank", "bank", name, "error", err)
			os.Exit(1)
		}

		banks = append(banks, b)
	}

	return model{
		banks:       bank.NewSet(banks...),
		currentView: ViewBanks,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewBanks {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			default:
				all := m.banks.All()
				for i, b := range all {
					if msg.String() == fmt.Sprintf("%d", i+1) {
						m.currentBank = b
						m.currentView = ViewAuth
						m.authView = view.NewAuthModel(b)

						return m, m.authView.Init()
					}
				}
			}

			return m, nil
		}

	case view.BackMsg:
		switch m.currentView {
		case ViewAuth:
			m.currentView = ViewBanks
		case ViewTransfer:
			m.currentView = ViewSession
			m.sessionView = view.NewSessionModel(m.currentBank, m.accountID)

			return m, m.sessionView.Init()
		}

		return m, nil

	case view.LoggedInMsg:
		m.accountID = msg.AccountID
		m.currentView = ViewSession
		m.sessionView = view.NewSessionModel(m.currentBank, m.accountID)

		return m, m.sessionView.Init()

	case view.LogoutMsg:
		m.accountID = ""
		m.currentView = ViewAuth
		m.authView = view.NewAuthModel(m.currentBank)

		return m, m.authView.Init()

	case view.StartTransferMsg:
		m.currentView = ViewTransfer
		m.transferView = view.NewTransferModel(m.currentBank, m.accountID)

		return m, m.transferView.Init()
	}

	switch m.currentView {
	case ViewAuth:
		var newModel tea.Model
		newModel, cmd = m.authView.Update(msg)
		m.authView = newModel.(view.AuthModel)
	case ViewSession:
		var newModel tea.Model
		newModel, cmd = m.sessionView.Update(msg)
		m.sessionView = newModel.(view.SessionModel)
	case ViewTransfer:
		var newModel tea.Model
		newModel, cmd = m.transferView.Update(msg)
		m.transferView = newModel.(view.TransferModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewBanks:
		body := "Teller\n\nSelect a bank:\n\n"
		for i, b := range m.banks.All() {
			body += fmt.Sprintf("%d. %s\n", i+1, b.Name)
		}

		body += "\nq. Quit"

		return lipgloss.NewStyle().Padding(2).Render(body)
	case ViewAuth:
		return m.authView.View()
	case ViewSession:
		return m.sessionView.View()
	case ViewTransfer:
		return m.transferView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
