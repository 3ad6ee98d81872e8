// Package email sends the console's transactional emails (club admin welcome,
// activation links, delivery tests).
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMessage = errors.New("email: invalid message")
	ErrSendFailed     = errors.New("email: send failed")
	ErrInvalidConfig  = errors.New("email: invalid config")
)

// Message is a single outbound email. From is filled by the sender when empty.
type Message struct {
	From     string
	To       string
	Cc       string
	ReplyTo  string
	Subject  string
	Tag      string
	HTMLBody string
	TextBody string
}

func (m Message) Validate() error {
	if !IsValidEmail(m.To) {
		return fmt.Errorf("%w: recipient %q", ErrInvalidMessage, m.To)
	}
	if m.Cc != "" && !IsValidEmail(m.Cc) {
		return fmt.Errorf("%w: cc %q", ErrInvalidMessage, m.Cc)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject required", ErrInvalidMessage)
	}
	if m.HTMLBody == "" && m.TextBody == "" {
		return fmt.Errorf("%w: body required", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// IsValidEmail performs lightweight validation of an email address format.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t\r\n<>") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// Normalize lowercases and trims an address for comparisons and storage.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
