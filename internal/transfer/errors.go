package transfer

import "errors"

var (
	// ErrSelfTransfer means source and destination are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrCodeMismatch means the entered code does not match the challenge.
	ErrCodeMismatch = errors.New("invalid code")

	// ErrExpiredChallenge means the pending transfer was already consumed,
	// abandoned, or outlived the code window.
	ErrExpiredChallenge = errors.New("challenge expired")
)
