package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// QuoteNumber formats a sequential quote number
func QuoteNumber(seq int) string {
	return fmt.Sprintf("DEV-%06d", seq)
}

// InvoiceNumber formats a sequential invoice number. The role suffix is a
// display artifact; the installment role field on the invoice is
// authoritative.
func InvoiceNumber(seq int, roleSuffix string) string {
	return fmt.Sprintf("FAC-%06d%s", seq, roleSuffix)
}
