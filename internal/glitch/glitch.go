// Package glitch forwards glitch reports to the maintainers.
package glitch

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/store"

	"github.com/jordan-wright/email"
)

const report_notifier_send = "notifier.send"

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

func (c SmtpConfig) enabled() bool {
	return c.Server != "" && len(c.Recipients) > 0
}

type Notifier interface {
	Notify(ctx context.Context, id int64, report store.GlitchReport) error
}

// NewNotifier returns an email notifier, or one that does nothing when
// SMTP is not configured.
func NewNotifier(config SmtpConfig, tel telemetry.API) Notifier {
	assert.NotNil(tel)
	if !config.enabled() {
		return Noop{}
	}
	return EmailNotifier{
		config: config,
		tel:    telemetry.NewScopedAPI("glitch", tel),
	}
}

type Noop struct{}

func (Noop) Notify(context.Context, int64, store.GlitchReport) error {
	return nil
}

// EmailNotifier mails every report to the configured recipients.
type EmailNotifier struct {
	config SmtpConfig
	tel    telemetry.API
}

func (n EmailNotifier) compose(id int64, report store.GlitchReport) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("UMS Assist <%s>", n.config.EmailAddress)
	mail.To = n.config.Recipients
	mail.Subject = fmt.Sprintf("Glitch report #%d: %s", id, report.Type)
	mail.Text = []byte(fmt.Sprintf(`A new glitch report was submitted.

Type: %s
Reported by: %s (%s)

%s
`, report.Type, report.UserName, report.UserRegNo, report.Description))
	return mail
}

func (n EmailNotifier) Notify(ctx context.Context, id int64, report store.GlitchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := n.compose(id, report)
	addr := fmt.Sprintf("%s:%d", n.config.Server, n.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", n.config.EmailAddress, n.config.Password, n.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		n.tel.ReportBroken(report_notifier_send, err, id)
		return fmt.Errorf("send glitch report %d: %w", id, err)
	}
	return nil
}
