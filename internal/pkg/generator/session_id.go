package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type IDGenerator struct{}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GenerateSessionID returns an opaque id for one checkout session.
func (g *IDGenerator) GenerateSessionID() (string, error) {
	randomBytes := make([]byte, 8)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("CS-%s", hex.EncodeToString(randomBytes)), nil
}

// GenerateReceiptID returns a caller-side receipt reference passed to the
// order service so every order creation is traceable to one attempt.
func (g *IDGenerator) GenerateReceiptID(userID string) (string, error) {
	randomBytes := make([]byte, 5)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	return fmt.Sprintf("RCPT-%s-%s", userID, hex.EncodeToString(randomBytes)), nil
}
