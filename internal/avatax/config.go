// Package avatax integrates the AvaTax tax engine: configuration, the REST
// client, the payload and response transformers, and the Provider
// implementation tying them together.
package avatax

import (
	"fmt"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// DefaultTaxCode is AvaTax's generic taxable-goods code, used when a line's
// tax class has no configured match.
const DefaultTaxCode = "P0000000"

// DefaultShippingTaxCode is the freight code used when no shipping tax code
// is configured. Distinct shipping methods may require different codes, so
// configurations normally override it.
const DefaultShippingTaxCode = "FR000000"

// Credentials authenticate against the AvaTax REST API.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Address is the origin (ship-from) address of a provider instance.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Config is one AvaTax provider instance configuration as stored in the
// encrypted metadata. Read-only from this package's perspective; created
// and edited by the dashboard.
type Config struct {
	Name            string      `json:"name"`
	CompanyCode     string      `json:"companyCode"`
	IsSandbox       bool        `json:"isSandbox"`
	IsAutocommit    bool        `json:"isAutocommit"`
	ShippingTaxCode string      `json:"shippingTaxCode"`
	Credentials     Credentials `json:"credentials"`
	Address         Address     `json:"address"`
}

// Validate checks the fields a live call cannot do without.
func (c Config) Validate() error {
	if c.Credentials.Username == "" {
		return fmt.Errorf("avatax config: username is required")
	}
	if c.Credentials.Password == "" {
		return fmt.Errorf("avatax config: password is required")
	}
	if c.CompanyCode == "" {
		return fmt.Errorf("avatax config: company code is required")
	}
	return nil
}

// ShippingCode returns the configured shipping tax code or the default.
func (c Config) ShippingCode() string {
	if c.ShippingTaxCode != "" {
		return c.ShippingTaxCode
	}
	return DefaultShippingTaxCode
}

// Obfuscated returns a display copy with the credentials masked.
func (c Config) Obfuscated() Config {
	c.Credentials.Username = taxes.ObfuscateSecret(c.Credentials.Username)
	c.Credentials.Password = taxes.ObfuscateSecret(c.Credentials.Password)
	return c
}
