package helpers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Ticket tokens look like TKT-<32 uppercase hex chars>. The token is the
// sole credential for looking up and checking in a ticket, so the random
// part comes from crypto/rand.
const (
	tokenPrefix    = "TKT-"
	tokenRandBytes = 16
)

func GenerateTicketToken() (string, error) {
	byt := make([]byte, tokenRandBytes)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return tokenPrefix + strings.ToUpper(hex.EncodeToString(byt)), nil
}

// ValidateTokenFormat rejects malformed tokens before any database
// lookup happens.
func ValidateTokenFormat(token string) bool {
	if !strings.HasPrefix(token, tokenPrefix) {
		return false
	}
	rest := strings.TrimPrefix(token, tokenPrefix)
	if len(rest) != tokenRandBytes*2 {
		return false
	}
	if rest != strings.ToUpper(rest) {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil
}

func signToken(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// QRPayload binds the token to an HMAC signature so a scanned code can
// be checked for tampering before hitting the database.
func QRPayload(token, secret string) string {
	return fmt.Sprintf("ticket:%s;signature:%s", token, signToken(token, secret))
}

// VerifyQRPayload extracts the token from a scanned payload and checks
// its signature. Returns the token and whether the payload is genuine.
func VerifyQRPayload(payload, secret string) (string, bool) {
	parts := strings.Split(payload, ";")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "ticket:") || !strings.HasPrefix(parts[1], "signature:") {
		return "", false
	}
	token := strings.TrimPrefix(parts[0], "ticket:")
	signature := strings.TrimPrefix(parts[1], "signature:")
	if !ValidateTokenFormat(token) {
		return "", false
	}
	expected := signToken(token, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", false
	}
	return token, true
}

func GenerateQRImage(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, 256)
}
