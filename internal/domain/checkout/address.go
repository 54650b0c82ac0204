package checkout

import (
	"strings"
)

// Address is a delivery address selected for checkout. Addresses referenced
// by a submitted order are immutable for historical fidelity; address CRUD
// happens outside this core.
type Address struct {
	AddressID      string `json:"addressId"`
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	Street         string `json:"street"`
	ProvinceID     string `json:"provinceId"`
	CommuneID      string `json:"communeId"`
	ProvinceName   string `json:"provinceName,omitempty"`
	CommuneName    string `json:"communeName,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	IsDefault      bool   `json:"isDefault"`
}

// HasResolvedNames reports whether the address already carries human-readable
// province and commune names, letting the fee resolver skip the directory
// lookup.
func (a *Address) HasResolvedNames() bool {
	return strings.TrimSpace(a.ProvinceName) != "" && strings.TrimSpace(a.CommuneName) != ""
}

// blankFields returns the required fields that are empty after trimming
func (a *Address) blankFields() []string {
	var blank []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			blank = append(blank, name)
		}
	}
	check("recipientName", a.RecipientName)
	check("recipientPhone", a.RecipientPhone)
	check("street", a.Street)
	check("provinceId", a.ProvinceID)
	check("communeId", a.CommuneID)
	return blank
}
