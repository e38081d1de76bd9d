package entity

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrLeadNotFound      = errors.New("lead não encontrado")
	ErrLeadAlreadyExists = errors.New("lead já existe")
)

type WebsiteQuality string

const (
	WebsiteNone WebsiteQuality = "none"
	WebsitePoor WebsiteQuality = "poor"
	WebsiteGood WebsiteQuality = "good"
)

func (q WebsiteQuality) Valid() bool {
	switch q {
	case WebsiteNone, WebsitePoor, WebsiteGood:
		return true
	}
	return false
}

type Source string

const (
	SourceGoogleBusiness Source = "google_business"
	SourceInstagram      Source = "instagram"
	SourceFacebook       Source = "facebook"
	SourceLinkedIn       Source = "linkedin"
	SourceManual         Source = "manual"
	SourceScraper        Source = "scraper"
)

func (s Source) Valid() bool {
	switch s {
	case SourceGoogleBusiness, SourceInstagram, SourceFacebook, SourceLinkedIn, SourceManual, SourceScraper:
		return true
	}
	return false
}

// Lead é um contato comercial prospectado.
type Lead struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	CompanyName    string         `json:"company_name"`
	Niche          string         `json:"niche"`
	Territory      string         `json:"territory"`
	ContactName    string         `json:"contact_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	WhatsApp       string         `json:"whatsapp"`
	Instagram      string         `json:"instagram"`
	Facebook       string         `json:"facebook"`
	LinkedIn       string         `json:"linkedin"`
	Website        string         `json:"website"`
	GoogleMaps     string         `json:"google_maps"`
	WebsiteQuality WebsiteQuality `json:"website_quality"`
	Stage          Stage          `json:"stage"`
	Source         Source         `json:"source"`
	Notes          string         `json:"notes"`
	Value          float64        `json:"value"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastContactAt  *time.Time     `json:"last_contact_at,omitempty"`
}

// LeadInput carries caller-supplied fields for a new lead. Nil means absent.
type LeadInput struct {
	ID             string          `json:"-"`
	CompanyName    *string         `json:"company_name,omitempty"`
	Niche          *string         `json:"niche,omitempty"`
	Territory      *string         `json:"territory,omitempty"`
	ContactName    *string         `json:"contact_name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	WhatsApp       *string         `json:"whatsapp,omitempty"`
	Instagram      *string         `json:"instagram,omitempty"`
	Facebook       *string         `json:"facebook,omitempty"`
	LinkedIn       *string         `json:"linkedin,omitempty"`
	Website        *string         `json:"website,omitempty"`
	GoogleMaps     *string         `json:"google_maps,omitempty"`
	WebsiteQuality *WebsiteQuality `json:"website_quality,omitempty"`
	Stage          *Stage          `json:"stage,omitempty"`
	Source         *Source         `json:"source,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	LastContactAt  *time.Time      `json:"last_contact_at,omitempty"`
}

// LeadPatch is a partial update. Owner and CreatedAt are not patchable.
type LeadPatch struct {
	CompanyName    *string         `json:"company_name,omitempty"`
	Niche          *string         `json:"niche,omitempty"`
	Territory      *string         `json:"territory,omitempty"`
	ContactName    *string         `json:"contact_name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	WhatsApp       *string         `json:"whatsapp,omitempty"`
	Instagram      *string         `json:"instagram,omitempty"`
	Facebook       *string         `json:"facebook,omitempty"`
	LinkedIn       *string         `json:"linkedin,omitempty"`
	Website        *string         `json:"website,omitempty"`
	GoogleMaps     *string         `json:"google_maps,omitempty"`
	WebsiteQuality *WebsiteQuality `json:"website_quality,omitempty"`
	Stage          *Stage          `json:"stage,omitempty"`
	Source         *Source         `json:"source,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	LastContactAt  *time.Time      `json:"last_contact_at,omitempty"`
}

// LeadFilter restricts a listing. A nil Territory lists every territory.
type LeadFilter struct {
	Territory *string
}

// AllTerritories is the listing keyword for "no territory filter".
const AllTerritories = "all"

// TerritoryFilter builds a filter from a query value; "" and "all" list everything.
func TerritoryFilter(value string) LeadFilter {
	if value == "" || value == AllTerritories {
		return LeadFilter{}
	}
	return LeadFilter{Territory: &value}
}

func (f LeadFilter) Match(l Lead) bool {
	return f.Territory == nil || l.Territory == *f.Territory
}

type LeadRepositoryInterface interface {
	List(ctx context.Context, ownerID string, filter LeadFilter) ([]Lead, error)
	FindByID(ctx context.Context, ownerID, id string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, ownerID, id string) error
	UpsertBatch(ctx context.Context, ownerID string, leads []Lead) (int, error)
	ListOrphanIDs(ctx context.Context) ([]string, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	AssignOwner(ctx context.Context, ids []string, ownerID string) (int, error)
}

// NormalizeLead fills every field of a new lead. The owner always comes from
// the acting principal, never from the input.
func NormalizeLead(ownerID string, in LeadInput, now time.Time) Lead {
	l := Lead{
		ID:             in.ID,
		OwnerID:        ownerID,
		CompanyName:    str(in.CompanyName),
		Niche:          str(in.Niche),
		Territory:      str(in.Territory),
		ContactName:    str(in.ContactName),
		Email:          str(in.Email),
		Phone:          str(in.Phone),
		WhatsApp:       str(in.WhatsApp),
		Instagram:      str(in.Instagram),
		Facebook:       str(in.Facebook),
		LinkedIn:       str(in.LinkedIn),
		Website:        str(in.Website),
		GoogleMaps:     str(in.GoogleMaps),
		WebsiteQuality: WebsiteNone,
		Stage:          StageNew,
		Source:         SourceManual,
		Notes:          str(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
		LastContactAt:  in.LastContactAt,
	}
	if in.WebsiteQuality != nil && *in.WebsiteQuality != "" {
		l.WebsiteQuality = *in.WebsiteQuality
	}
	if in.Stage != nil && *in.Stage != "" {
		l.Stage = *in.Stage
	}
	if in.Source != nil && *in.Source != "" {
		l.Source = *in.Source
	}
	if in.Value != nil {
		l.Value = *in.Value
	}
	return l
}

// Validate checks the enum-like fields of a normalized lead.
func (l *Lead) Validate() error {
	if !l.Stage.Valid() {
		return ErrInvalidStage
	}
	if !l.Source.Valid() {
		return errors.New("source is invalid")
	}
	if !l.WebsiteQuality.Valid() {
		return errors.New("website_quality must be none, poor or good")
	}
	return nil
}

// Apply merges a patch and refreshes UpdatedAt. CreatedAt and OwnerID stay.
func (l *Lead) Apply(p LeadPatch, now time.Time) {
	set(&l.CompanyName, p.CompanyName)
	set(&l.Niche, p.Niche)
	set(&l.Territory, p.Territory)
	set(&l.ContactName, p.ContactName)
	set(&l.Email, p.Email)
	set(&l.Phone, p.Phone)
	set(&l.WhatsApp, p.WhatsApp)
	set(&l.Instagram, p.Instagram)
	set(&l.Facebook, p.Facebook)
	set(&l.LinkedIn, p.LinkedIn)
	set(&l.Website, p.Website)
	set(&l.GoogleMaps, p.GoogleMaps)
	set(&l.Notes, p.Notes)
	if p.WebsiteQuality != nil {
		l.WebsiteQuality = *p.WebsiteQuality
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.LastContactAt != nil {
		t := *p.LastContactAt
		l.LastContactAt = &t
	}
	l.Touch(now)
}

// Touch refreshes UpdatedAt without ever moving it before CreatedAt.
func (l *Lead) Touch(now time.Time) {
	if now.Before(l.CreatedAt) {
		now = l.CreatedAt
	}
	l.UpdatedAt = now
}

// WhatsAppLink returns the wa.me link for the lead's WhatsApp number, or "".
func (l *Lead) WhatsAppLink() string {
	num := NormalizeWhatsApp(l.WhatsApp)
	if num == "" {
		num = NormalizeWhatsApp(l.Phone)
	}
	if num == "" {
		return ""
	}
	return "https://wa.me/" + num
}

// SortNewestFirst orders leads by CreatedAt descending, ties by id.
func SortNewestFirst(leads []Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		if leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].ID < leads[j].ID
		}
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}

// Territories returns the distinct non-empty territories, sorted.
func Territories(leads []Lead) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range leads {
		t := l.Territory
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func set(dst *string, p *string) {
	if p != nil {
		*dst = *p
	}
}

// Sanitize coerces enum fields read back from storage so legacy records
// never surface an unknown stage, source or website quality.
func (l *Lead) Sanitize() {
	if !l.Stage.Valid() {
		l.Stage = StageNew
	}
	if !l.Source.Valid() {
		l.Source = SourceManual
	}
	if !l.WebsiteQuality.Valid() {
		l.WebsiteQuality = WebsiteNone
	}
	if l.UpdatedAt.Before(l.CreatedAt) {
		l.UpdatedAt = l.CreatedAt
	}
}
