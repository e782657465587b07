package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateCode returns n random bytes as an uppercase hex string.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// NewRedemptionCode builds the opaque code encoded into a ticket QR.
// Generated once per order and immutable afterwards; uniqueness is
// backed by a unique index on the orders collection.
func NewRedemptionCode() (string, error) {
	suffix, err := GenerateCode(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QR-%d-%s", time.Now().UnixMilli(), suffix), nil
}

// NewOrderNumber builds a human-readable order reference.
func NewOrderNumber() (string, error) {
	suffix, err := GenerateCode(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix), nil
}
