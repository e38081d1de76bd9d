package entity

import (
	"strings"
	"unicode"
)

// DeriveLeadID builds the import key: trimmed company name plus territory,
// lowercased, keeping only a-z and 0-9. "Acme Co" and "acme co!" collide.
func DeriveLeadID(companyName, territory string) string {
	raw := strings.ToLower(strings.TrimSpace(companyName) + territory)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeWhatsApp keeps digits, forces the 55 country prefix and rejects
// numbers shorter than 12 digits.
func NormalizeWhatsApp(raw string) string {
	if raw == "" || strings.EqualFold(strings.TrimSpace(raw), "nao encontrado") {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, raw)
	digits = strings.TrimPrefix(digits, "55")
	digits = "55" + digits
	if len(digits) < 12 {
		return ""
	}
	return digits
}

var linkInBioHosts = []string{
	"linktree", "linktr.ee", "bio.link", "meulink.com", "beacons.ai", "sites.google.com",
}

// ClassifyWebsite grades a site URL: absent is none, link-in-bio pages are poor.
func ClassifyWebsite(site string) WebsiteQuality {
	s := strings.ToLower(strings.TrimSpace(site))
	if s == "" || s == "sem site" || s == "nao encontrado" {
		return WebsiteNone
	}
	for _, h := range linkInBioHosts {
		if strings.Contains(s, h) {
			return WebsitePoor
		}
	}
	return WebsiteGood
}
