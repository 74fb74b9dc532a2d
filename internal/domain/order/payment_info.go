package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PaymentInfo is the authoritative record of a successful gateway
// transaction. At most one exists per order; it is only written after
// the gateway signature has been verified.
type PaymentInfo struct {
	GatewayOrderID   string     `json:"gateway_order_id"`
	GatewayPaymentID string     `json:"gateway_payment_id"`
	Signature        string     `json:"signature"`
	UTR              string     `json:"utr,omitempty"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
}

// IsZero returns true when no gateway transaction has been recorded
func (p PaymentInfo) IsZero() bool {
	return p.GatewayOrderID == "" && p.GatewayPaymentID == ""
}

// Value implements driver.Valuer for JSONB storage
func (p PaymentInfo) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PaymentInfo) Scan(value any) error {
	if value == nil {
		*p = PaymentInfo{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentInfo: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentInfo{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// FileRefs is an ordered list of opaque storage references owned by an
// order. Stored as JSONB.
type FileRefs []string

// Value implements driver.Valuer for JSONB storage
func (f FileRefs) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB retrieval
func (f *FileRefs) Scan(value any) error {
	if value == nil {
		*f = FileRefs{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan FileRefs: unsupported type")
	}

	if len(bytes) == 0 {
		*f = FileRefs{}
		return nil
	}

	return json.Unmarshal(bytes, f)
}
