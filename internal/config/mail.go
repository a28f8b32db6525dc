package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SMTP connection security modes
const (
	SecurityStartTLS = "starttls"
	SecuritySSL      = "ssl"
	SecurityNone     = "none"
)

const defaultSender = "SupportSphere <noreply@supportsphere.com>"

// MailConfig holds the outbound SMTP settings. Mail is delivered only when
// Host is set; otherwise messages are logged.
type MailConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	Security      string        `yaml:"security"`
	DefaultSender string        `yaml:"default_sender"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Enabled reports whether an SMTP server is configured
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

func (m *MailConfig) applyDefaults() {
	if m.Security == "" {
		m.Security = SecurityStartTLS
	}
	if m.Port == 0 {
		if m.Security == SecuritySSL {
			m.Port = 465
		} else {
			m.Port = 587
		}
	}
	if m.DefaultSender == "" {
		m.DefaultSender = defaultSender
	}
	if m.Timeout == 0 {
		m.Timeout = 15 * time.Second
	}
}

func (m MailConfig) validate() error {
	switch m.Security {
	case SecurityStartTLS, SecuritySSL, SecurityNone:
	default:
		return fmt.Errorf("mail.security must be starttls, ssl or none, got %q", m.Security)
	}
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("mail.port out of range: %d", m.Port)
	}
	return nil
}

// Finding severities reported by Check
const (
	FindingOK    = "ok"
	FindingInfo  = "info"
	FindingWarn  = "warn"
	FindingError = "error"
)

// Finding is one line of a mail configuration report
type Finding struct {
	Level   string `json:"level"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

var commonMailPorts = map[int]bool{25: true, 465: true, 587: true, 2525: true}

// Check inspects the mail settings the way an operator would before enabling
// delivery. The report is valid when no finding has level error. The
// password is masked.
func (m MailConfig) Check() (findings []Finding, valid bool) {
	valid = true
	required := []struct {
		field, value string
		secret       bool
	}{
		{"MAIL_SERVER", m.Host, false},
		{"MAIL_PORT", portString(m.Port), false},
		{"MAIL_USERNAME", m.Username, false},
		{"MAIL_PASSWORD", m.Password, true},
	}
	for _, r := range required {
		if r.value == "" {
			findings = append(findings, Finding{FindingError, r.field, r.field + " is not set"})
			valid = false
			continue
		}
		shown := r.value
		if r.secret {
			shown = strings.Repeat("*", len(r.value))
		}
		findings = append(findings, Finding{FindingOK, r.field, shown})
	}

	findings = append(findings,
		Finding{FindingInfo, "MAIL_SECURITY", m.Security},
		Finding{FindingInfo, "MAIL_DEFAULT_SENDER", m.DefaultSender},
	)

	if m.Port != 0 && !commonMailPorts[m.Port] {
		findings = append(findings, Finding{FindingWarn, "MAIL_PORT",
			fmt.Sprintf("unusual port number: %d (common ports: 587, 465, 25)", m.Port)})
	}
	if strings.EqualFold(m.Host, "smtp.gmail.com") {
		findings = append(findings, Finding{FindingInfo, "MAIL_SERVER",
			"Gmail detected: enable 2-factor authentication and use an app password"})
	}
	return findings, valid
}

func portString(p int) string {
	if p == 0 {
		return ""
	}
	return strconv.Itoa(p)
}
