package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// QuoteStatus represents the persisted status of a quote (devis)
type QuoteStatus int

const (
	QuoteStatusBrouillon QuoteStatus = 0
	QuoteStatusEnvoye    QuoteStatus = 1
	QuoteStatusAccepte   QuoteStatus = 2
	QuoteStatusRefuse    QuoteStatus = 3
	QuoteStatusPaye      QuoteStatus = 4
)

// QuoteStatusExpire is a display-only derivation, never persisted.
const QuoteStatusExpire = "expire"

func (s QuoteStatus) String() string {
	return [...]string{"brouillon", "envoye", "accepte", "refuse", "paye"}[s]
}

// IsValid reports whether the value is one of the persisted statuses
func (s QuoteStatus) IsValid() bool {
	return s >= QuoteStatusBrouillon && s <= QuoteStatusPaye
}

// IsTerminal reports whether the status can no longer be changed manually.
// Acceptance is a binding commitment: only the automatic paid promotion may
// move an accepted quote further.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepte || s == QuoteStatusPaye
}

func (s QuoteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuoteStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuoteStatus(i)
		return nil
	}
	parsed, ok := ParseQuoteStatus(str)
	if ok {
		*s = parsed
	}
	return nil
}

// ParseQuoteStatus maps a wire name to a QuoteStatus
func ParseQuoteStatus(str string) (QuoteStatus, bool) {
	switch str {
	case "brouillon":
		return QuoteStatusBrouillon, true
	case "envoye":
		return QuoteStatusEnvoye, true
	case "accepte":
		return QuoteStatusAccepte, true
	case "refuse":
		return QuoteStatusRefuse, true
	case "paye":
		return QuoteStatusPaye, true
	}
	return QuoteStatusBrouillon, false
}

func (s QuoteStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuoteStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuoteStatusBrouillon
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuoteStatus(v)
	case int:
		*s = QuoteStatus(v)
	}
	return nil
}
