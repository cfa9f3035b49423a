package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"gopkg.in/gomail.v2"
)

// Dialer é o que o sender precisa de *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var assignmentTemplate = template.Must(template.New("assignment").Parse(`<p>Hi {{.AgentName}},</p>
<p>A new lead has been assigned to you: <strong>{{.LeadName}}</strong>.</p>
<p>Lead ID: {{.LeadID}}</p>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NotifyAssignment manda o aviso de atribuição para o agente do evento.
func (s *EmailSender) NotifyAssignment(ctx context.Context, event entity.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lead := event.LeadName
	if lead == "" {
		lead = "(no name)"
	}
	data := AssignmentEmailData{
		AgentName: event.AgentName,
		LeadName:  lead,
		LeadID:    event.LeadID,
	}

	body, err := render(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", event.AgentEmail)
	m.SetHeader("Subject", fmt.Sprintf("New lead assigned: %s", lead))
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func render(data AssignmentEmailData) (string, error) {
	var body bytes.Buffer
	if err := assignmentTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
