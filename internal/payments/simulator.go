package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Simulator stands in for the real processor in development. Every
// intent is accepted immediately; completion is driven through the
// /dev/simulate-payment endpoint.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	id := SimulatedIntentID()
	return &Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       "requires_payment",
	}, nil
}

// SimulatedIntentID fabricates a synthetic payment-intent identifier.
func SimulatedIntentID() string {
	byt := make([]byte, 8)
	rand.Read(byt)
	return fmt.Sprintf("pi_sim_%s", hex.EncodeToString(byt))
}
