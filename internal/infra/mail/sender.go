package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

// dialer é o pedaço do *gomail.Dialer que usamos.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var outreachTemplate = template.Must(template.New("outreach").Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif; line-height: 1.5">
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body></html>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// SendOutreach envia o script renderizado em texto puro e HTML.
func (s *EmailSender) SendOutreach(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Host == "" {
		return fmt.Errorf("SMTP não configurado")
	}

	var html bytes.Buffer
	data := OutreachEmailData{Subject: subject, Paragraphs: strings.Split(body, "\n")}
	if err := outreachTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	from := s.From
	if from == "" {
		from = s.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", html.String())

	d := s.dialer
	if d == nil {
		d = gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
