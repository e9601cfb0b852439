package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the persisted status of an invoice (facture)
type InvoiceStatus int

const (
	InvoiceStatusBrouillon InvoiceStatus = 0
	InvoiceStatusEnvoyee   InvoiceStatus = 1
	InvoiceStatusPayee     InvoiceStatus = 2
	// InvoiceStatusEnRetard is surfaced for display; the core never drives a
	// transition into it.
	InvoiceStatusEnRetard InvoiceStatus = 3
)

func (s InvoiceStatus) String() string {
	return [...]string{"brouillon", "envoyee", "payee", "en_retard"}[s]
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "brouillon":
		*s = InvoiceStatusBrouillon
	case "envoyee":
		*s = InvoiceStatusEnvoyee
	case "payee":
		*s = InvoiceStatusPayee
	case "en_retard":
		*s = InvoiceStatusEnRetard
	}
	return nil
}

// ParseInvoiceStatus converts a French status string to an InvoiceStatus
func ParseInvoiceStatus(str string) (InvoiceStatus, bool) {
	switch str {
	case "brouillon":
		return InvoiceStatusBrouillon, true
	case "envoyee":
		return InvoiceStatusEnvoyee, true
	case "payee":
		return InvoiceStatusPayee, true
	case "en_retard":
		return InvoiceStatusEnRetard, true
	}
	return InvoiceStatusBrouillon, false
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusBrouillon
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
