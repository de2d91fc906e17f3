// Package taxjar integrates the TaxJar tax engine: configuration, the REST
// client, the payload and response transformers, and the Provider
// implementation tying them together.
package taxjar

import (
	"fmt"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// Credentials authenticate against the TaxJar API.
type Credentials struct {
	APIKey string `json:"apiKey"`
}

// Address is the origin (ship-from) address of a provider instance.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Config is one TaxJar provider instance configuration as stored in the
// encrypted metadata.
type Config struct {
	Name        string      `json:"name"`
	IsSandbox   bool        `json:"isSandbox"`
	Credentials Credentials `json:"credentials"`
	Address     Address     `json:"address"`
}

// Validate checks the fields a live call cannot do without.
func (c Config) Validate() error {
	if c.Credentials.APIKey == "" {
		return fmt.Errorf("taxjar config: api key is required")
	}
	return nil
}

// Obfuscated returns a display copy with the credentials masked.
func (c Config) Obfuscated() Config {
	c.Credentials.APIKey = taxes.ObfuscateSecret(c.Credentials.APIKey)
	return c
}
