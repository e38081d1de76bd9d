package usecase

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// headerAliases maps normalized CSV headers (scraper columns and English
// names) to lead fields.
var headerAliases = map[string]string{
	"empresa":        "company_name",
	"companyname":    "company_name",
	"company":        "company_name",
	"nicho":          "niche",
	"niche":          "niche",
	"contato":        "contact_name",
	"contactname":    "contact_name",
	"email":          "email",
	"telefone":       "phone",
	"phone":          "phone",
	"whatsapp":       "whatsapp",
	"site":           "website",
	"website":        "website",
	"instagram":      "instagram",
	"facebook":       "facebook",
	"linkedin":       "linkedin",
	"googlemaps":     "google_maps",
	"notas":          "notes",
	"notes":          "notes",
	"websitequality": "website_quality",
	"valor":          "value",
	"value":          "value",
}

var placeholderValues = map[string]bool{
	"sem site":       true,
	"nao encontrado": true,
	"não encontrado": true,
	"n/a":            true,
}

// ParseLeadsCSV reads a scraper export into import candidates. Unknown
// columns are ignored; blank rows are skipped.
func ParseLeadsCSV(r io.Reader) ([]entity.LeadInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, validationError("arquivo CSV está vazio")
	}
	if err != nil {
		return nil, validationError("CSV inválido: " + err.Error())
	}

	columns := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			columns[i] = field
		}
	}
	if !containsField(columns, "company_name") {
		return nil, validationError("CSV sem coluna de empresa (Empresa ou companyName)")
	}

	var out []entity.LeadInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, validationError("CSV inválido: " + err.Error())
		}
		if in, ok := recordToInput(columns, record); ok {
			out = append(out, in)
		}
	}

	if len(out) == 0 {
		return nil, validationError("nenhum lead válido encontrado no CSV")
	}
	return out, nil
}

func recordToInput(columns map[int]string, record []string) (entity.LeadInput, bool) {
	var in entity.LeadInput
	values := map[string]string{}
	for i, raw := range record {
		field, ok := columns[i]
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw)
		if placeholderValues[strings.ToLower(v)] {
			v = ""
		}
		values[field] = v
	}

	empty := true
	for _, v := range values {
		if v != "" {
			empty = false
			break
		}
	}
	if empty {
		return in, false
	}

	in.CompanyName = strPtr(values["company_name"])
	in.Niche = strPtr(values["niche"])
	in.ContactName = strPtr(values["contact_name"])
	in.Email = strPtr(values["email"])
	in.Instagram = strPtr(values["instagram"])
	in.Facebook = strPtr(values["facebook"])
	in.LinkedIn = strPtr(values["linkedin"])
	in.Website = strPtr(values["website"])
	in.GoogleMaps = strPtr(values["google_maps"])
	in.Notes = strPtr(values["notes"])

	phone := values["phone"]
	if phone == "" {
		phone = values["whatsapp"]
	}
	in.Phone = strPtr(phone)
	in.WhatsApp = strPtr(entity.NormalizeWhatsApp(values["whatsapp"]))

	quality := entity.WebsiteQuality(strings.ToLower(values["website_quality"]))
	if !quality.Valid() {
		quality = entity.ClassifyWebsite(values["website"])
	}
	in.WebsiteQuality = &quality

	if v, err := strconv.ParseFloat(strings.ReplaceAll(values["value"], ",", "."), 64); err == nil && v >= 0 {
		in.Value = &v
	}
	return in, true
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(h)
}

func containsField(columns map[int]string, field string) bool {
	for _, f := range columns {
		if f == field {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}
