package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"procurement-app/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier tells people about status changes. Sending happens off the
// request path; errors are only logged.
type Notifier interface {
	StatusChanged(ctx context.Context, pr models.PurchaseRequest, from, to string) error
}

type NopNotifier struct{}

func (NopNotifier) StatusChanged(context.Context, models.PurchaseRequest, string, string) error {
	return nil
}

type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

func NewMailNotifier(host string, port int, user, password, from string, to []string) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
	}
}

var statusMailTmpl = template.Must(template.New("status").Parse(`
<p>Purchase request <b>{{.Code}}</b> ({{.Title}}) moved from {{.From}} to <b>{{.To}}</b>.</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>#</th><th>Product</th><th>Qty</th><th>Unit</th><th>Source</th><th>Total</th></tr>
{{range .Items}}<tr><td>{{.LineNo}}</td><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.Unit}}</td><td>{{.SourceType}}</td><td>{{.TotalPrice}}</td></tr>
{{end}}</table>
{{if .Note}}<p>Note: {{.Note}}</p>{{end}}
`))

func renderStatusMail(pr models.PurchaseRequest, from, to string) (string, error) {
	var buf bytes.Buffer
	err := statusMailTmpl.Execute(&buf, struct {
		models.PurchaseRequest
		From, To string
	}{pr, from, to})
	return buf.String(), err
}

func statusMailSubject(pr models.PurchaseRequest, to string) string {
	return fmt.Sprintf("[%s] %s is now %s", pr.Code, pr.Title, to)
}

func (n *MailNotifier) StatusChanged(ctx context.Context, pr models.PurchaseRequest, from, to string) error {
	if len(n.to) == 0 {
		return nil
	}
	body, err := renderStatusMail(pr, from, to)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to...)
	msg.SetHeader("Subject", statusMailSubject(pr, to))
	msg.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send status mail for %s: %w", pr.Code, err)
	}
	zap.L().Info("status mail sent", zap.String("code", pr.Code), zap.Strings("to", n.to))
	return nil
}

// SendGridNotifier sends the same mail through the SendGrid API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   string
	to     []string
}

func NewSendGridNotifier(apiKey, from string, to []string) *SendGridNotifier {
	return &SendGridNotifier{client: sendgrid.NewSendClient(apiKey), from: from, to: to}
}

func (n *SendGridNotifier) StatusChanged(ctx context.Context, pr models.PurchaseRequest, from, to string) error {
	if len(n.to) == 0 {
		return nil
	}
	body, err := renderStatusMail(pr, from, to)
	if err != nil {
		return err
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail("Procurement", n.from))
	msg.Subject = statusMailSubject(pr, to)
	p := mail.NewPersonalization()
	for _, addr := range n.to {
		p.AddTos(mail.NewEmail("", addr))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/html", body))

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send for %s: %w", pr.Code, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send for %s failed: status=%d body=%s", pr.Code, resp.StatusCode, resp.Body)
	}
	zap.L().Info("status mail sent", zap.String("code", pr.Code), zap.Int("status", resp.StatusCode))
	return nil
}
