package ledger

import "errors"

var (
	// ErrDuplicateAccount means the requested account id is already taken.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrUnknownAccount means no account with the given id exists.
	ErrUnknownAccount = errors.New("account not found")

	// ErrInvalidCredentials covers both an unknown id and a wrong password.
	// Callers get the same answer either way.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAmount means the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be > 0")

	// ErrInsufficientFunds means the amount exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrRecorderWrite means the balance change was applied but the
	// transaction log line could not be written. Callers should treat it
	// as a warning, not a failed operation.
	ErrRecorderWrite = errors.New("transaction log write failed")
)
