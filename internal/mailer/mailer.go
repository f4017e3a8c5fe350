package mailer

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"time"

	"gopkg.in/gomail.v2"
)

// TicketEmail is the data rendered into the confirmation message.
type TicketEmail struct {
	To             string
	Name           string
	TenantName     string
	EventTitle     string
	EventStart     time.Time
	Location       string
	TicketTypeName string
	Token          string
	QRImage        []byte
}

type Sender interface {
	SendTicketConfirmation(email *TicketEmail) error
}

const confirmationTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Your ticket for {{.EventTitle}}</h2>
  <p>Hi {{.Name}},</p>
  <p>Thanks for registering with {{.TenantName}}. Here is your ticket:</p>
  <table>
    <tr><td><strong>Event</strong></td><td>{{.EventTitle}}</td></tr>
    <tr><td><strong>Starts</strong></td><td>{{.EventStart.Format "Mon, 02 Jan 2006 15:04 MST"}}</td></tr>
    {{if .Location}}<tr><td><strong>Location</strong></td><td>{{.Location}}</td></tr>{{end}}
    <tr><td><strong>Ticket</strong></td><td>{{.TicketTypeName}}</td></tr>
    <tr><td><strong>Code</strong></td><td>{{.Token}}</td></tr>
  </table>
  <p>Show this QR code at the entrance:</p>
  <img src="cid:ticket-qr.png" alt="{{.Token}}" width="256" height="256"/>
</body>
</html>`

var confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))

// RenderConfirmation produces the HTML body of the confirmation email.
func RenderConfirmation(email *TicketEmail) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, email); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SMTPSender dispatches rendered emails through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) SendTicketConfirmation(email *TicketEmail) error {
	body, err := RenderConfirmation(email)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", "Your ticket for "+email.EventTitle)
	m.SetBody("text/html", body)
	m.Embed("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(email.QRImage)
		return err
	}))

	return s.dialer.DialAndSend(m)
}

// LogSender is the development fallback when no SMTP relay is
// configured. It only logs the dispatch.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendTicketConfirmation(email *TicketEmail) error {
	log.Printf("mailer: would send ticket confirmation for %s to %s", email.Token, email.To)
	return nil
}
