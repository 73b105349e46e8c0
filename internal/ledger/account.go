package ledger

import "golang.org/x/crypto/bcrypt"

// Account represents a bank account held by the ledger.
type Account struct {
	ID      string
	Secret  Secret
	Balance int64 // Balance in cents
}

// Secret verifies login credentials without exposing how they are stored.
// The ledger only ever asks "does this candidate match"; the storage scheme
// behind the answer can change without touching any caller.
type Secret interface {
	Verify(candidate string) bool
}

// PlainSecret compares candidates byte for byte. Demo accounts use it so the
// seeded passwords stay recognizable.
type PlainSecret string

func (s PlainSecret) Verify(candidate string) bool {
	return string(s) == candidate
}

// HashedSecret holds a bcrypt digest of the password.
type HashedSecret []byte

// NewHashedSecret hashes password at the given bcrypt cost.
func NewHashedSecret(password string, cost int) (HashedSecret, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	return HashedSecret(digest), nil
}

func (s HashedSecret) Verify(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(candidate)) == nil
}
