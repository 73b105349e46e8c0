package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns to the previous screen.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LoggedInMsg reports a successful login.
type LoggedInMsg struct {
	AccountID string
}

// LogoutMsg ends the current session.
type LogoutMsg struct{}

func Logout() tea.Msg {
	return LogoutMsg{}
}

// StartTransferMsg switches to the transfer flow.
type StartTransferMsg struct{}

func StartTransfer() tea.Msg {
	return StartTransferMsg{}
}
