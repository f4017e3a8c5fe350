package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tickethub/internal/helpers"
)

const intentPath = "/v1/payment_intents"

// HTTPProvider talks to the payment processor's REST API with
// HMAC-signed headers.
type HTTPProvider struct {
	baseURL   string
	clientID  string
	secretKey string
	client    *http.Client
}

func NewHTTPProvider(baseURL, clientID, secretKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:   baseURL,
		clientID:  clientID,
		secretKey: secretKey,
		client:    &http.Client{},
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func (p *HTTPProvider) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	body := map[string]interface{}{
		"amount":      req.Amount,
		"currency":    req.Currency,
		"description": req.Description,
		"customer": map[string]interface{}{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
		},
		"metadata": map[string]interface{}{
			"ticket_id": req.TicketID.String(),
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode intent request: %w", err)
	}

	headerGenerator := helpers.NewPaymentHeaderGenerator(p.clientID, p.secretKey, intentPath)
	headers := headerGenerator.GetHeaders(string(jsonBody))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+intentPath, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var parsed intentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	if parsed.ID == "" || parsed.ClientSecret == "" {
		return nil, fmt.Errorf("payment response missing intent id or client secret")
	}

	return &Intent{
		ID:           parsed.ID,
		ClientSecret: parsed.ClientSecret,
		Amount:       parsed.Amount,
		Currency:     parsed.Currency,
		Status:       parsed.Status,
	}, nil
}
