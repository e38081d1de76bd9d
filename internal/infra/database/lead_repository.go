package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

const leadColumns = `id, COALESCE(owner_id, ''), company_name, niche, territory, contact_name,
	email, phone, whatsapp, instagram, facebook, linkedin, website, google_maps,
	website_quality, stage, source, notes, value, created_at, updated_at, last_contact_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// List filtra por dono e território; a ordenação é feita em Go.
func (r *LeadRepository) List(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE owner_id = $1`
	args := []any{ownerID}
	if filter.Territory != nil {
		query += ` AND territory = $2`
		args = append(args, *filter.Territory)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	entity.SortNewestFirst(leads)
	return leads, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND owner_id = $2`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO leads (id, owner_id, company_name, niche, territory, contact_name,
			email, phone, whatsapp, instagram, facebook, linkedin, website, google_maps,
			website_quality, stage, source, notes, value, created_at, updated_at, last_contact_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := r.DB.ExecContext(ctx, query, leadArgs(l)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrLeadAlreadyExists
		}
		log.Printf("Erro crítico no banco: %v", err)
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// Update grava todas as colunas mutáveis; created_at nunca é tocado.
func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET
			company_name = $3, niche = $4, territory = $5, contact_name = $6,
			email = $7, phone = $8, whatsapp = $9, instagram = $10, facebook = $11,
			linkedin = $12, website = $13, google_maps = $14, website_quality = $15,
			stage = $16, source = $17, notes = $18, value = $19, updated_at = $20,
			last_contact_at = $21
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		l.ID, l.OwnerID, l.CompanyName, l.Niche, l.Territory, l.ContactName,
		l.Email, l.Phone, l.WhatsApp, l.Instagram, l.Facebook,
		l.LinkedIn, l.Website, l.GoogleMaps, string(l.WebsiteQuality),
		string(l.Stage), string(l.Source), l.Notes, l.Value, l.UpdatedAt,
		l.LastContactAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// UpsertBatch grava o grupo inteiro numa transação. O WHERE do ON CONFLICT
// impede que um id de outro dono seja sobrescrito; essas linhas não contam.
func (r *LeadRepository) UpsertBatch(ctx context.Context, ownerID string, leads []entity.Lead) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (id, owner_id, company_name, niche, territory, contact_name,
			email, phone, whatsapp, instagram, facebook, linkedin, website, google_maps,
			website_quality, stage, source, notes, value, created_at, updated_at, last_contact_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			niche = EXCLUDED.niche,
			territory = EXCLUDED.territory,
			contact_name = EXCLUDED.contact_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			whatsapp = EXCLUDED.whatsapp,
			instagram = EXCLUDED.instagram,
			facebook = EXCLUDED.facebook,
			linkedin = EXCLUDED.linkedin,
			website = EXCLUDED.website,
			google_maps = EXCLUDED.google_maps,
			website_quality = EXCLUDED.website_quality,
			stage = EXCLUDED.stage,
			source = EXCLUDED.source,
			notes = EXCLUDED.notes,
			value = EXCLUDED.value,
			updated_at = GREATEST(EXCLUDED.updated_at, leads.created_at),
			last_contact_at = EXCLUDED.last_contact_at
		WHERE leads.owner_id = EXCLUDED.owner_id
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i := range leads {
		l := leads[i]
		l.OwnerID = ownerID
		res, err := stmt.ExecContext(ctx, leadArgs(&l)...)
		if err != nil {
			return 0, fmt.Errorf("upsert lead %s: %w", l.ID, err)
		}
		n, _ := res.RowsAffected()
		written += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return written, nil
}

func (r *LeadRepository) ListOrphanIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM leads WHERE owner_id IS NULL OR owner_id = ''`)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan orphan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *LeadRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

// AssignOwner só carimba linhas que continuam sem dono.
func (r *LeadRepository) AssignOwner(ctx context.Context, ids []string, ownerID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin assign: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE leads SET owner_id = $2
		WHERE id = ANY($1) AND (owner_id IS NULL OR owner_id = '')
	`, pq.Array(ids), ownerID)
	if err != nil {
		return 0, fmt.Errorf("assign owner: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit assign: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*entity.Lead, error) {
	var (
		l                      entity.Lead
		quality, stage, source string
		lastContact            sql.NullTime
	)
	err := s.Scan(
		&l.ID, &l.OwnerID, &l.CompanyName, &l.Niche, &l.Territory, &l.ContactName,
		&l.Email, &l.Phone, &l.WhatsApp, &l.Instagram, &l.Facebook, &l.LinkedIn,
		&l.Website, &l.GoogleMaps, &quality, &stage, &source, &l.Notes, &l.Value,
		&l.CreatedAt, &l.UpdatedAt, &lastContact,
	)
	if err != nil {
		return nil, err
	}
	l.WebsiteQuality = entity.WebsiteQuality(quality)
	l.Stage = entity.Stage(stage)
	l.Source = entity.Source(source)
	if lastContact.Valid {
		t := lastContact.Time
		l.LastContactAt = &t
	}
	l.Sanitize()
	return &l, nil
}

func leadArgs(l *entity.Lead) []any {
	return []any{
		l.ID, nullString(l.OwnerID), l.CompanyName, l.Niche, l.Territory, l.ContactName,
		l.Email, l.Phone, l.WhatsApp, l.Instagram, l.Facebook, l.LinkedIn,
		l.Website, l.GoogleMaps, string(l.WebsiteQuality), string(l.Stage),
		string(l.Source), l.Notes, l.Value, l.CreatedAt, l.UpdatedAt, l.LastContactAt,
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
