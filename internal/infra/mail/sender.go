package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/leadscope/leadscope/internal/entity"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

var reportTmpl = template.Must(template.New("report").Parse(
	`Job {{.ID}} ({{.Username}}) finished with status {{.Status}}.
Found: {{.Found}}
Message: {{.Message}}
`))

// SendJobReport mails the operator the final state of a background
// run. Wired only when MAIL_HOST is configured.
func (s *EmailSender) SendJobReport(job entity.Job) error {
	var body bytes.Buffer
	if err := reportTmpl.Execute(&body, job); err != nil {
		return fmt.Errorf("render job report: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Scrape job %s: %s", job.ID, job.Status))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send job report: %w", err)
	}
	return nil
}
