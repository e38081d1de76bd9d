package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

const scraperCSV = "\ufeffEmpresa,Nicho,WhatsApp,Site,Instagram,Google_Maps,Territorio,Notas,WebsiteQuality\n" +
	"Pet Feliz,Pet Shop,(11) 98888-7777,https://linktr.ee/petfeliz,@petfeliz,https://maps.google.com/1,Campinas,,\n" +
	"Padaria Sol,Padaria,nao encontrado,Sem site,,,Campinas,abre cedo,\n" +
	",,,,,,,,\n"

func TestParseLeadsCSVScraperExport(t *testing.T) {
	leads, err := usecase.ParseLeadsCSV(strings.NewReader(scraperCSV))
	require.NoError(t, err)
	require.Len(t, leads, 2)

	pet := leads[0]
	assert.Equal(t, "Pet Feliz", *pet.CompanyName)
	assert.Equal(t, "Pet Shop", *pet.Niche)
	assert.Equal(t, "5511988887777", *pet.WhatsApp)
	assert.Equal(t, "(11) 98888-7777", *pet.Phone)
	assert.Equal(t, entity.WebsitePoor, *pet.WebsiteQuality)
	assert.Equal(t, "https://maps.google.com/1", *pet.GoogleMaps)
	assert.Nil(t, pet.Territory)

	padaria := leads[1]
	assert.Equal(t, "", *padaria.WhatsApp)
	assert.Equal(t, "", *padaria.Website)
	assert.Equal(t, entity.WebsiteNone, *padaria.WebsiteQuality)
	assert.Equal(t, "abre cedo", *padaria.Notes)
}

func TestParseLeadsCSVEnglishHeaders(t *testing.T) {
	csv := "companyName,niche,email,value,website_quality\nAcme,Tech,ceo@acme.io,\"1500,50\",good\n"
	leads, err := usecase.ParseLeadsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "ceo@acme.io", *leads[0].Email)
	assert.Equal(t, 1500.5, *leads[0].Value)
	assert.Equal(t, entity.WebsiteGood, *leads[0].WebsiteQuality)
}

func TestParseLeadsCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"no company column", "nicho,site\nPet,x\n"},
		{"only blank rows", "Empresa,Nicho\n,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.ParseLeadsCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, usecase.IsDomainError(err))
		})
	}
}

func TestValidateUpload(t *testing.T) {
	assert.Empty(t, usecase.ValidateUpload("leads.CSV", 1024, "SP"))

	errs := usecase.ValidateUpload("leads.xlsx", 0, "")
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["territory"])
	assert.True(t, fields["file"])
	assert.Len(t, errs, 3)

	errs = usecase.ValidateUpload("big.csv", usecase.MaxUploadBytes+1, "SP")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "10MB")
}

func TestCheckUpload(t *testing.T) {
	assert.NoError(t, usecase.CheckUpload("leads.csv", 10, "SP"))

	err := usecase.CheckUpload("leads.txt", 10, "SP")
	require.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
	assert.Contains(t, err.Error(), "file")
}

func TestValidateLeadInputPhone(t *testing.T) {
	assert.Empty(t, usecase.ValidateLeadInput(entity.LeadInput{CompanyName: ptr("X"), Phone: ptr("(55) 3222-1111")}))
	assert.Empty(t, usecase.ValidateLeadInput(entity.LeadInput{CompanyName: ptr("X"), Phone: ptr("+55 11 98888-7777")}))
	assert.NotEmpty(t, usecase.ValidateLeadInput(entity.LeadInput{CompanyName: ptr("X"), Phone: ptr("123")}))
}
