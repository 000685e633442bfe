package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountBlocked  AccountStatus = "BLOCKED"
)

// Lockout policy for the transactional password.
const (
	MaxSecretAttempts  = 3
	SecretLockDuration = 30 * time.Minute
)

var secretFormat = regexp.MustCompile(`^\d{4,6}$`)

// ValidSecretFormat reports whether a raw transactional password is a
// 4 to 6 digit numeric code.
func ValidSecretFormat(raw string) bool {
	return secretFormat.MatchString(raw)
}

// Account is a customer's bank account. The balance and the transactional
// password fields (SecretHash, SecretSet, FailedAttempts, LockedUntil) are
// mutated only through the account store, which serializes access per
// account id.
type Account struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	OwnerName string        `json:"owner_name"`
	CPF       string        `json:"cpf"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Number    string        `json:"number"`
	Agency    string        `json:"agency"`
	Status    AccountStatus `json:"status"`
	Balance   Money         `json:"balance"`

	SecretHash     string     `json:"-"`
	SecretSet      bool       `json:"-"`
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount builds an ACTIVE zero-balance account for an owner profile.
func NewAccount(ownerID uuid.UUID, ownerName, cpf, email, phone string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		OwnerName: ownerName,
		CPF:       cpf,
		Email:     email,
		Phone:     phone,
		Number:    newAccountNumber(),
		Agency:    "00001",
		Status:    AccountActive,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasSufficientBalance reports whether the account can cover amount.
func (a *Account) HasSufficientBalance(amount Money) bool {
	return amount.IsPositive() && !a.Balance.LessThan(amount)
}

// SecretLocked reports whether the transactional password is locked at the
// given instant, and how long remains.
func (a *Account) SecretLocked(now time.Time) (bool, time.Duration) {
	if a.LockedUntil == nil || !now.Before(*a.LockedUntil) {
		return false, 0
	}
	return true, a.LockedUntil.Sub(now)
}

func newAccountNumber() string {
	var b [4]byte
	rand.Read(b[:])
	return fmt.Sprintf("%08d", binary.BigEndian.Uint32(b[:])%100000000)
}
