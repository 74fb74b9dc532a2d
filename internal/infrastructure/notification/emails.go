package notification

import (
	"fmt"
	"time"

	"github.com/zenithstudio/backend/internal/domain/order"
)

// PaymentReceiptEmail builds the receipt email sent after a payment
// settles. The rendered receipt HTML doubles as the email body.
func PaymentReceiptEmail(o *order.Order, receiptHTML string) *Message {
	return &Message{
		To:       o.Email,
		Subject:  fmt.Sprintf("Payment received for order %s", o.OrderNo),
		HTMLBody: receiptHTML,
		TextBody: fmt.Sprintf(
			"We have received your payment for order %s. Total: INR %s, paid: INR %s.",
			o.OrderNo,
			o.PriceDetails.Total.StringFixed(2),
			o.PaymentBreakdown().TotalPaid.StringFixed(2)),
	}
}

// OTPEmail builds the password reset code email
func OTPEmail(to, code string, ttl time.Duration) *Message {
	minutes := int(ttl.Minutes())
	return &Message{
		To:      to,
		Subject: "Your password reset code",
		HTMLBody: fmt.Sprintf(
			`<p>Your password reset code is:</p>
<p style="font-size:28px;font-weight:700;letter-spacing:6px">%s</p>
<p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>`,
			code, minutes),
		TextBody: fmt.Sprintf(
			"Your password reset code is %s. It expires in %d minutes.", code, minutes),
	}
}

// PaymentReminderEmail builds a dues reminder for an unsettled order
func PaymentReminderEmail(o *order.Order) *Message {
	dues := o.PaymentBreakdown().Dues.StringFixed(2)
	return &Message{
		To:      o.Email,
		Subject: fmt.Sprintf("Payment pending for order %s", o.OrderNo),
		HTMLBody: fmt.Sprintf(
			`<p>A balance of <strong>INR %s</strong> is pending on your order <strong>%s</strong>.</p>
<p>Please complete the payment so we can proceed with delivery.</p>`,
			dues, o.OrderNo),
		TextBody: fmt.Sprintf(
			"A balance of INR %s is pending on your order %s.", dues, o.OrderNo),
	}
}
