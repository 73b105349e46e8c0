// Package recorder implements the append-only transaction log: one
// human-readable line per balance mutation, matching the format
// "Account <id>: <description>. Balance: <amount>".
package recorder

import (
	"fmt"
	"os"
	"sync"

	"github.com/MrJamesThe3rd/teller/internal/money"
)

// File appends transaction lines to a single log file. Appends are
// serialized so interleaved sessions cannot corrupt a line.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Append(accountID, description string, balance int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening transaction log: %w", err)
	}

	line := fmt.Sprintf("Account %s: %s. Balance: %s\n", accountID, description, money.Format(balance))
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("appending to transaction log: %w", err)
	}

	return file.Close()
}

// Discard drops every line. Used where no log file is wanted.
type Discard struct{}

func (Discard) Append(string, string, int64) error { return nil }
