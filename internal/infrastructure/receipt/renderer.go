// Package receipt renders payment receipts for orders as HTML, used
// both for receipt emails and for printable receipt downloads.
package receipt

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/zenithstudio/backend/internal/domain/order"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "02 Jan 2006"

// Data is the flattened view of an order handed to the receipt template
type Data struct {
	StudioName string
	OrderNo    string
	SerialNo   string
	Email      string
	Mobile     string

	AlbumName  string
	PaperType  string
	AlbumSize  string
	SheetCount int64
	Quantity   int64

	OrderDate    string
	DeliveryDate string

	PaperRate      string
	BindingRate    string
	BagRate        string
	DeliveryCharge string
	Subtotal       string
	Tax            string
	Total          string

	AdvanceAmount     string
	CashPayment       string
	CounterUPIPayment string
	TotalPaid         string
	Dues              string
	FullyPaid         bool

	PaymentStatus    string
	GatewayPaymentID string
	UTR              string

	GeneratedAt string
}

// BuildData flattens an order and its payment breakdown for rendering
func BuildData(o *order.Order, studioName string) Data {
	breakdown := o.PaymentBreakdown()

	data := Data{
		StudioName: studioName,
		OrderNo:    o.OrderNo,
		SerialNo:   o.SerialNo,
		Email:      o.Email,
		Mobile:     o.Mobile,

		AlbumName:  o.Product.AlbumName,
		PaperType:  o.Product.PaperType,
		AlbumSize:  o.Product.AlbumSize,
		SheetCount: o.Product.SheetCount,
		Quantity:   o.PriceDetails.Quantity,

		OrderDate: o.OrderDate.Format(dateLayout),

		PaperRate:      o.PriceDetails.PaperRate.StringFixed(2),
		BindingRate:    o.PriceDetails.BindingRate.StringFixed(2),
		BagRate:        o.PriceDetails.BagRate.StringFixed(2),
		DeliveryCharge: o.PriceDetails.DeliveryCharge.StringFixed(2),
		Subtotal:       o.PriceDetails.Subtotal.StringFixed(2),
		Tax:            o.PriceDetails.Tax.StringFixed(2),
		Total:          o.PriceDetails.Total.StringFixed(2),

		AdvanceAmount:     o.PriceDetails.AdvanceAmount.StringFixed(2),
		CashPayment:       o.PriceDetails.CashPayment.StringFixed(2),
		CounterUPIPayment: o.PriceDetails.CounterUPIPayment.StringFixed(2),
		TotalPaid:         breakdown.TotalPaid.StringFixed(2),
		Dues:              breakdown.Dues.StringFixed(2),
		FullyPaid:         breakdown.FullyPaid,

		PaymentStatus:    o.PaymentStatus.String(),
		GatewayPaymentID: o.PaymentInfo.GatewayPaymentID,
		UTR:              o.PaymentInfo.UTR,

		GeneratedAt: time.Now().Format(dateLayout + " 15:04"),
	}

	if o.DeliveryDate != nil {
		data.DeliveryDate = o.DeliveryDate.Format(dateLayout)
	}

	return data
}

// Renderer renders receipt HTML from the embedded template
type Renderer struct {
	tmpl       *template.Template
	studioName string
}

// NewRenderer parses the embedded receipt template
func NewRenderer(studioName string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, studioName: studioName}, nil
}

// Render produces the receipt HTML for an order
func (r *Renderer) Render(o *order.Order) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "receipt.html", BuildData(o, r.studioName)); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}
