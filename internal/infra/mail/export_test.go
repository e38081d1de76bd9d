package mail

import "gopkg.in/gomail.v2"

// WithDialer troca o SMTP real nos testes.
func (s *EmailSender) WithDialer(d interface {
	DialAndSend(m ...*gomail.Message) error
}) *EmailSender {
	s.dialer = d
	return s
}
