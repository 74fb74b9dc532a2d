package payment

import (
	"context"

	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// IntentRequest asks the gateway to open a payment order for an amount
type IntentRequest struct {
	// OrderNo is our order number, passed to the gateway as the receipt
	OrderNo string

	// Amount is the amount to collect, converted to minor units on the wire
	Amount valueobject.Money

	// Notes are free-form key/values echoed back in gateway dashboards
	Notes map[string]string
}

// Intent is an open gateway payment order a client can pay against
type Intent struct {
	// GatewayOrderID identifies the order on the gateway side
	GatewayOrderID string

	// AmountPaise is the amount in minor units as registered with the gateway
	AmountPaise int64

	// Currency is the ISO currency code
	Currency string

	// KeyID is the public key the client needs to open checkout or render a QR
	KeyID string
}

// Gateway is the port the application layer uses to talk to the
// payment provider. Signature verification never touches the network.
type Gateway interface {
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) error
}

// razorpayOrderRequest is the wire format for POST /v1/orders
type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// razorpayOrderResponse is the wire format of a created gateway order
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// razorpayErrorResponse is the wire format of an API error
type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
