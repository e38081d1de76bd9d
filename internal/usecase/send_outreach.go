package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type SendOutreachInput struct {
	LeadID   string `json:"lead_id"`
	ScriptID string `json:"script_id"`
	Subject  string `json:"subject"`
}

type SendOutreachOutput struct {
	LeadID        string    `json:"lead_id"`
	To            string    `json:"to"`
	LastContactAt time.Time `json:"last_contact_at"`
}

// SendOutreachUseCase e-mails a rendered script to a lead and stamps the
// last contact time.
type SendOutreachUseCase struct {
	Scripts *ScriptService
	Leads   *LeadService
	Sender  OutreachSender
	Events  LeadEvents
	Now     func() time.Time
}

func NewSendOutreachUseCase(scripts *ScriptService, leads *LeadService, sender OutreachSender, events LeadEvents) *SendOutreachUseCase {
	return &SendOutreachUseCase{
		Scripts: scripts,
		Leads:   leads,
		Sender:  sender,
		Events:  eventsOrNoop(events),
		Now:     time.Now,
	}
}

func (uc *SendOutreachUseCase) Execute(ctx context.Context, p entity.Principal, input SendOutreachInput) (*SendOutreachOutput, error) {
	if uc.Sender == nil {
		return nil, &TechnicalError{Code: CodeMail, Message: "envio de e-mail não configurado"}
	}

	lead, err := uc.Leads.Get(ctx, p, input.LeadID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(lead.Email) == "" {
		return nil, validationError("validation failed: email (lead has no email)")
	}

	rendered, err := uc.Scripts.Render(ctx, p, input.ScriptID, lead.ID)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		subject = lead.CompanyName
	}

	events := eventsOrNoop(uc.Events)
	if err := uc.Sender.SendOutreach(ctx, lead.Email, subject, rendered.Text); err != nil {
		events.OutreachSent(false)
		return nil, &TechnicalError{Code: CodeMail, Message: "falha ao enviar e-mail", Err: err}
	}
	events.OutreachSent(true)

	now := clockOrNow(uc.Now)()
	if _, err := uc.Leads.MarkContacted(ctx, p, lead.ID, now); err != nil {
		// O e-mail já saiu; só registra a falha do carimbo.
		log.Printf("⚠️ Outreach enviado mas lastContactAt não gravado para %s: %v", lead.ID, err)
	}

	return &SendOutreachOutput{LeadID: lead.ID, To: lead.Email, LastContactAt: now}, nil
}
