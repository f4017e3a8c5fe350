package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntentRequest carries everything the processor needs to open a charge
// attempt for a single ticket.
type IntentRequest struct {
	TicketID      uuid.UUID
	Amount        int64
	Currency      string
	Description   string
	CustomerName  string
	CustomerEmail string
}

// Intent is the processor's handle for an in-progress charge. The
// client secret is handed to the browser to complete the payment.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

type Provider interface {
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)
}

// MinorUnits converts a decimal price into the integer minor-unit
// amount the processor expects.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).IntPart()
}
