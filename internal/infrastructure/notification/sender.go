// Package notification delivers transactional emails: payment
// receipts, password reset codes and payment reminders.
package notification

import "context"

// Message is a single outbound email
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender is the port the application layer uses to send email
type EmailSender interface {
	Send(ctx context.Context, msg *Message) error
}
