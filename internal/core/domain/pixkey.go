package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PixKeyType string

const (
	KeyCPF    PixKeyType = "CPF"
	KeyEmail  PixKeyType = "EMAIL"
	KeyPhone  PixKeyType = "PHONE"
	KeyRandom PixKeyType = "RANDOM"
)

type PixKeyStatus string

const (
	KeyActive   PixKeyStatus = "ACTIVE"
	KeyInactive PixKeyStatus = "INACTIVE"
)

// MaxActiveKeys is the limit of active pix keys per account.
const MaxActiveKeys = 5

// RandomKeyLength is the length of a generated RANDOM key value.
const RandomKeyLength = 32

var (
	cpfFormat   = regexp.MustCompile(`^\d{11}$`)
	phoneFormat = regexp.MustCompile(`^\d{10,11}$`)
	emailFormat = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
)

// PixKey is an alias resolving to exactly one account. The (Value, Type)
// pair is unique system-wide while the key exists.
type PixKey struct {
	ID        uuid.UUID    `json:"id"`
	AccountID uuid.UUID    `json:"account_id"`
	Type      PixKeyType   `json:"key_type"`
	Value     string       `json:"key_value"`
	OwnerName string       `json:"owner_name"`
	Status    PixKeyStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewPixKey builds an ACTIVE key for an account.
func NewPixKey(accountID uuid.UUID, keyType PixKeyType, value, ownerName string) *PixKey {
	return &PixKey{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      keyType,
		Value:     value,
		OwnerName: ownerName,
		Status:    KeyActive,
		CreatedAt: time.Now().UTC(),
	}
}

// NewRandomKeyValue generates an opaque 32-character token.
func NewRandomKeyValue() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidateKeyValue checks the value format for a key type.
func ValidateKeyValue(keyType PixKeyType, value string) error {
	switch keyType {
	case KeyCPF:
		if !cpfFormat.MatchString(value) {
			return fmt.Errorf("%w: cpf must have 11 digits", ErrInvalidKeyValue)
		}
	case KeyPhone:
		if !phoneFormat.MatchString(value) {
			return fmt.Errorf("%w: phone must have 10 or 11 digits", ErrInvalidKeyValue)
		}
	case KeyEmail:
		if !emailFormat.MatchString(value) {
			return fmt.Errorf("%w: malformed email", ErrInvalidKeyValue)
		}
	case KeyRandom:
		if len(value) != RandomKeyLength {
			return fmt.Errorf("%w: random key must have %d characters", ErrInvalidKeyValue, RandomKeyLength)
		}
	default:
		return fmt.Errorf("%w: unknown key type %q", ErrInvalidKeyValue, keyType)
	}
	return nil
}
