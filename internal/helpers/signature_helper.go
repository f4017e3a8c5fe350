package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// PaymentHeaderGenerator builds the HMAC-signed headers the payment
// processor requires on every API call.
type PaymentHeaderGenerator struct {
	ClientID    string
	SecretKey   string
	RequestID   string
	RequestPath string
}

func NewPaymentHeaderGenerator(clientID, secretKey, requestPath string) *PaymentHeaderGenerator {
	return &PaymentHeaderGenerator{
		ClientID:    clientID,
		SecretKey:   secretKey,
		RequestID:   uuid.New().String(),
		RequestPath: requestPath,
	}
}

func (p *PaymentHeaderGenerator) GenerateDigest(jsonBody string) string {
	hash := sha256.Sum256([]byte(jsonBody))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (p *PaymentHeaderGenerator) GenerateSignature(digest, requestTimestamp string) string {
	componentSignature := "Client-Id:" + p.ClientID + "\n" +
		"Request-Id:" + p.RequestID + "\n" +
		"Request-Timestamp:" + requestTimestamp + "\n" +
		"Request-Target:" + p.RequestPath + "\n" +
		"Digest:" + digest

	mac := hmac.New(sha256.New, []byte(p.SecretKey))
	mac.Write([]byte(componentSignature))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return "HMACSHA256=" + signature
}

func (p *PaymentHeaderGenerator) GetHeaders(jsonBody string) map[string]string {
	requestTimestamp := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	digest := p.GenerateDigest(jsonBody)
	signature := p.GenerateSignature(digest, requestTimestamp)

	return map[string]string{
		"Client-Id":         p.ClientID,
		"Request-Id":        p.RequestID,
		"Request-Timestamp": requestTimestamp,
		"Signature":         signature,
		"Content-Type":      "application/json",
		"Digest":            digest,
	}
}

// VerifyWebhookSignature checks the signature the processor attaches to
// completion callbacks. Constant-time compare.
func VerifyWebhookSignature(secretKey, body, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(body))
	expected := "HMACSHA256=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
