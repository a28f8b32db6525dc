package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/NamashivayamS/Support-Sphere/internal/config"
)

// SMTPTransport delivers through an SMTP server. A new connection is dialled
// per message.
type SMTPTransport struct {
	cfg config.MailConfig
}

func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m, err := t.buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(t.cfg.Host, t.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail to %v: %w", msg.To, err)
	}
	return nil
}

func (t *SMTPTransport) buildMsg(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(t.cfg.DefaultSender); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", t.cfg.DefaultSender, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	m.Subject(msg.Subject)

	text := msg.Text
	if text == "" {
		text = msg.HTML
	}
	m.SetBodyString(gomail.TypeTextPlain, text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

func (t *SMTPTransport) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithTimeout(t.cfg.Timeout),
	}
	switch t.cfg.Security {
	case config.SecuritySSL:
		opts = append(opts, gomail.WithSSL())
	case config.SecurityNone:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(t.cfg.Username),
			gomail.WithPassword(t.cfg.Password),
		)
	}
	return opts
}
