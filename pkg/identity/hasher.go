package identity

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// VerifyResult is the outcome of a password check.
type VerifyResult int

const (
	VerifyFailed VerifyResult = iota
	VerifySuccess
	// VerifySuccessRehashNeeded means the password matched but the stored
	// hash uses a different cost than the hasher.
	VerifySuccessRehashNeeded
)

// Hasher hashes passwords with bcrypt.
type Hasher struct {
	dummy func() []byte
	cost  int
}

// NewHasher returns a Hasher. Costs outside bcrypt's range fall back to
// bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{
		cost: cost,
		dummy: sync.OnceValue(func() []byte {
			b, _ := bcrypt.GenerateFromPassword([]byte("hostkit-dummy-password"), cost)
			return b
		}),
	}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Hasher) Verify(hash, password string) VerifyResult {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		return VerifyFailed
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err != nil || cost != h.cost {
		return VerifySuccessRehashNeeded
	}
	return VerifySuccess
}

// VerifyDummy burns the same time as Verify for a login that has no user.
func (h *Hasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy(), []byte(password))
}

// IsHash reports whether s looks like a bcrypt hash.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
