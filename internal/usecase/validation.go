package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

const (
	MaxUploadBytes  = 10 * 1024 * 1024
	maxCompanyName  = 200
	maxTerritoryLen = 120
)

var nonDigit = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// asDomainError joins field errors into one VALIDATION_ERROR, or nil.
func asDomainError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

func ValidateLeadInput(in entity.LeadInput) []ValidationError {
	var errors []ValidationError

	name := ""
	if in.CompanyName != nil {
		name = strings.TrimSpace(*in.CompanyName)
	}
	if name == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	} else if len(name) > maxCompanyName {
		errors = append(errors, ValidationError{"company_name", "must not exceed 200 characters"})
	}

	errors = append(errors, validateContact(in.Email, in.Phone)...)
	errors = append(errors, validateEnums(in.Stage, in.Source, in.WebsiteQuality, in.Value)...)
	return errors
}

func ValidateLeadPatch(p entity.LeadPatch) []ValidationError {
	var errors []ValidationError

	if p.CompanyName != nil && strings.TrimSpace(*p.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "must not be empty"})
	}
	errors = append(errors, validateContact(p.Email, p.Phone)...)
	errors = append(errors, validateEnums(p.Stage, p.Source, p.WebsiteQuality, p.Value)...)
	return errors
}

func validateContact(email, phone *string) []ValidationError {
	var errors []ValidationError
	if email != nil && strings.TrimSpace(*email) != "" {
		if _, err := mail.ParseAddress(*email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}
	if phone != nil && strings.TrimSpace(*phone) != "" && !isValidPhoneNumber(*phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	return errors
}

func validateEnums(stage *entity.Stage, source *entity.Source, quality *entity.WebsiteQuality, value *float64) []ValidationError {
	var errors []ValidationError
	if stage != nil && !stage.Valid() {
		errors = append(errors, ValidationError{"stage", "must be one of new, contacted, proposal_sent, negotiation, won, lost"})
	}
	if source != nil && !source.Valid() {
		errors = append(errors, ValidationError{"source", "is invalid"})
	}
	if quality != nil && !quality.Valid() {
		errors = append(errors, ValidationError{"website_quality", "must be none, poor or good"})
	}
	if value != nil && *value < 0 {
		errors = append(errors, ValidationError{"value", "must not be negative"})
	}
	return errors
}

// ValidateUpload checks the import file boundary before anything is parsed.
func ValidateUpload(filename string, size int64, territory string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(territory) == "" {
		errors = append(errors, ValidationError{"territory", "is required"})
	} else if len(territory) > maxTerritoryLen {
		errors = append(errors, ValidationError{"territory", "must not exceed 120 characters"})
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		errors = append(errors, ValidationError{"file", "must be a .csv file"})
	}
	if size == 0 {
		errors = append(errors, ValidationError{"file", "is empty"})
	} else if size > MaxUploadBytes {
		errors = append(errors, ValidationError{"file", "must not exceed 10MB"})
	}
	return errors
}

// CheckUpload is ValidateUpload folded into a single VALIDATION_ERROR.
func CheckUpload(filename string, size int64, territory string) error {
	return asDomainError(ValidateUpload(filename, size, territory))
}

// Aceita fixo e celular, com ou sem DDI 55.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	if len(cleaned) > 11 {
		cleaned = strings.TrimPrefix(cleaned, "55")
	}
	return len(cleaned) >= 10 && len(cleaned) <= 11
}
