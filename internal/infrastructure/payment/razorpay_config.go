package payment

import "errors"

const razorpayBaseURL = "https://api.razorpay.com"

// RazorpayConfig holds Razorpay API credentials
type RazorpayConfig struct {
	// KeyID is the public API key, also handed to clients for checkout
	KeyID string

	// KeySecret signs server-side requests and payment signatures
	KeySecret string

	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// Validate checks that the configuration is complete
func (c *RazorpayConfig) Validate() error {
	if c.KeyID == "" {
		return errors.New("razorpay: key_id is required")
	}
	if c.KeySecret == "" {
		return errors.New("razorpay: key_secret is required")
	}
	return nil
}

func (c *RazorpayConfig) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return razorpayBaseURL
}
