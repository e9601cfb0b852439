package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InstallmentRole tags an invoice with its place in a quote's payment plan.
// It is a first-class field; the -A/-I/-S number suffix is display only.
type InstallmentRole int

const (
	InstallmentRoleNone          InstallmentRole = 0
	InstallmentRoleAcompte       InstallmentRole = 1
	InstallmentRoleIntermediaire InstallmentRole = 2
	InstallmentRoleSolde         InstallmentRole = 3
)

func (r InstallmentRole) String() string {
	return [...]string{"none", "acompte", "intermediaire", "solde"}[r]
}

// Suffix returns the display suffix appended to invoice numbers
func (r InstallmentRole) Suffix() string {
	switch r {
	case InstallmentRoleAcompte:
		return "-A"
	case InstallmentRoleIntermediaire:
		return "-I"
	case InstallmentRoleSolde:
		return "-S"
	}
	return ""
}

func (r InstallmentRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *InstallmentRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = InstallmentRole(i)
		return nil
	}
	parsed, ok := ParseInstallmentRole(str)
	if ok {
		*r = parsed
	}
	return nil
}

// ParseInstallmentRole maps a wire name to an InstallmentRole
func ParseInstallmentRole(str string) (InstallmentRole, bool) {
	switch str {
	case "acompte":
		return InstallmentRoleAcompte, true
	case "intermediaire":
		return InstallmentRoleIntermediaire, true
	case "solde":
		return InstallmentRoleSolde, true
	case "none":
		return InstallmentRoleNone, true
	}
	return InstallmentRoleNone, false
}

func (r InstallmentRole) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *InstallmentRole) Scan(value interface{}) error {
	if value == nil {
		*r = InstallmentRoleNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = InstallmentRole(v)
	case int:
		*r = InstallmentRole(v)
	}
	return nil
}
