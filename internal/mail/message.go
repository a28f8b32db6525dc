// Package mail renders notification emails and hands them to a transport.
package mail

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
)

var (
	ErrNoRecipients = errors.New("message has no recipients")
	ErrNoSubject    = errors.New("message has no subject")
)

// Message is one outbound email with both HTML and plain text bodies
type Message struct {
	To       []string        `json:"to"`
	Subject  string          `json:"subject"`
	HTML     string          `json:"-"`
	Text     string          `json:"-"`
	Category models.Category `json:"category"`
}

// Validate checks the message can be handed to a transport
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.Subject == "" {
		return ErrNoSubject
	}
	for _, addr := range m.To {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", addr, err)
		}
	}
	return nil
}

// Recipient returns the first address, which is the only one for every
// message the composer builds
func (m Message) Recipient() string {
	if len(m.To) == 0 {
		return ""
	}
	return m.To[0]
}
