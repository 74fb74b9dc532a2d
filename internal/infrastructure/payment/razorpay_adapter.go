package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zenithstudio/backend/internal/domain/shared"
)

// RazorpayAdapter implements the Gateway interface against the
// Razorpay REST API.
type RazorpayAdapter struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

// NewRazorpayAdapter creates a new Razorpay adapter
func NewRazorpayAdapter(config *RazorpayConfig) (*RazorpayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RazorpayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// CreateIntent opens a payment order on the gateway. The gateway only
// accepts amounts in minor units, so Money is converted to paise here.
func (a *RazorpayAdapter) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	if req.OrderNo == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order number is required")
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	body := razorpayOrderRequest{
		Amount:   req.Amount.Paise(),
		Currency: string(req.Amount.Currency()),
		Receipt:  req.OrderNo,
		Notes:    req.Notes,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.baseURL()+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(a.config.KeyID, a.config.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr razorpayErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: order creation failed: %s (%s)",
				apiErr.Error.Description, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("razorpay: order creation failed: HTTP %d", resp.StatusCode)
	}

	var orderResp razorpayOrderResponse
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, fmt.Errorf("razorpay: failed to parse response: %w", err)
	}
	if orderResp.ID == "" {
		return nil, fmt.Errorf("razorpay: response missing order id")
	}

	return &Intent{
		GatewayOrderID: orderResp.ID,
		AmountPaise:    orderResp.Amount,
		Currency:       orderResp.Currency,
		KeyID:          a.config.KeyID,
	}, nil
}

// VerifySignature checks the HMAC the gateway attaches to a completed
// payment. The signed message is "<order_id>|<payment_id>" and the
// signature is hex-encoded HMAC-SHA256 under the key secret.
func (a *RazorpayAdapter) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return shared.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(a.config.KeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return shared.ErrInvalidSignature
	}
	return nil
}

// Ensure RazorpayAdapter implements the Gateway interface
var _ Gateway = (*RazorpayAdapter)(nil)
