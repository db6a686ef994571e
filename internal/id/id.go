package id

import (
	"fmt"
	"strings"
)

// maxCompanyIDLen caps slug-derived company IDs.
const maxCompanyIDLen = 20

// FormatGroupID returns a group ID like "grp_3".
func FormatGroupID(seq int) string {
	return fmt.Sprintf("grp_%d", seq)
}

// CompanyID derives a company ID from the company name: lower-cased, spaces
// replaced with underscores, capped at 20 characters. When the name yields
// nothing, falls back to "co_N" where N = existing company count + 1.
func CompanyID(name string, existing int) string {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	// Truncate by rune, not byte, so multibyte names stay valid UTF-8.
	if runes := []rune(slug); len(runes) > maxCompanyIDLen {
		slug = string(runes[:maxCompanyIDLen])
	}
	if slug == "" {
		return fmt.Sprintf("co_%d", existing+1)
	}
	return slug
}

// AccessCode returns the short access code for a company ID (its first six
// characters).
func AccessCode(companyID string) string {
	if runes := []rune(companyID); len(runes) > 6 {
		return string(runes[:6])
	}
	return companyID
}
