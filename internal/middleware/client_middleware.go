package middleware

import (
	"github.com/gin-gonic/gin"

	"tickethub/internal/mailer"
	"tickethub/internal/payments"
)

func PaymentMiddleware(provider payments.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("payment_provider", provider)
		c.Next()
	}
}

func GetPaymentProvider(c *gin.Context) payments.Provider {
	provider, exists := c.Get("payment_provider")
	if !exists {
		return nil
	}
	return provider.(payments.Provider)
}

func MailerMiddleware(sender mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mailer", sender)
		c.Next()
	}
}

func GetMailer(c *gin.Context) mailer.Sender {
	sender, exists := c.Get("mailer")
	if !exists {
		return nil
	}
	return sender.(mailer.Sender)
}
