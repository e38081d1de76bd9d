package docstore

import (
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type leadDocument struct {
	ID             string     `bson:"_id"`
	OwnerID        string     `bson:"owner_id,omitempty"`
	CompanyName    string     `bson:"company_name"`
	Niche          string     `bson:"niche"`
	Territory      string     `bson:"territory"`
	ContactName    string     `bson:"contact_name"`
	Email          string     `bson:"email"`
	Phone          string     `bson:"phone"`
	WhatsApp       string     `bson:"whatsapp"`
	Instagram      string     `bson:"instagram"`
	Facebook       string     `bson:"facebook"`
	LinkedIn       string     `bson:"linkedin"`
	Website        string     `bson:"website"`
	GoogleMaps     string     `bson:"google_maps"`
	WebsiteQuality string     `bson:"website_quality"`
	Stage          string     `bson:"stage"`
	Source         string     `bson:"source"`
	Notes          string     `bson:"notes"`
	Value          float64    `bson:"value"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
	LastContactAt  *time.Time `bson:"last_contact_at,omitempty"`
}

func toLeadDocument(l entity.Lead) leadDocument {
	return leadDocument{
		ID:             l.ID,
		OwnerID:        l.OwnerID,
		CompanyName:    l.CompanyName,
		Niche:          l.Niche,
		Territory:      l.Territory,
		ContactName:    l.ContactName,
		Email:          l.Email,
		Phone:          l.Phone,
		WhatsApp:       l.WhatsApp,
		Instagram:      l.Instagram,
		Facebook:       l.Facebook,
		LinkedIn:       l.LinkedIn,
		Website:        l.Website,
		GoogleMaps:     l.GoogleMaps,
		WebsiteQuality: string(l.WebsiteQuality),
		Stage:          string(l.Stage),
		Source:         string(l.Source),
		Notes:          l.Notes,
		Value:          l.Value,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		LastContactAt:  l.LastContactAt,
	}
}

// toLead também corrige registros antigos gravados sem todos os campos.
func (d leadDocument) toLead() entity.Lead {
	l := entity.Lead{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		CompanyName:    d.CompanyName,
		Niche:          d.Niche,
		Territory:      d.Territory,
		ContactName:    d.ContactName,
		Email:          d.Email,
		Phone:          d.Phone,
		WhatsApp:       d.WhatsApp,
		Instagram:      d.Instagram,
		Facebook:       d.Facebook,
		LinkedIn:       d.LinkedIn,
		Website:        d.Website,
		GoogleMaps:     d.GoogleMaps,
		WebsiteQuality: entity.WebsiteQuality(d.WebsiteQuality),
		Stage:          entity.Stage(d.Stage),
		Source:         entity.Source(d.Source),
		Notes:          d.Notes,
		Value:          d.Value,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		LastContactAt:  d.LastContactAt,
	}
	l.Sanitize()
	return l
}

type scriptDocument struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Category  string    `bson:"category"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toScriptDocument(s entity.Script) scriptDocument {
	return scriptDocument{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Title:     s.Title,
		Content:   s.Content,
		Category:  string(s.Category),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d scriptDocument) toScript() entity.Script {
	return entity.Script{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		Content:   d.Content,
		Category:  entity.ScriptCategory(d.Category),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
