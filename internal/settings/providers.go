package settings

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/yourorg/taxes-app/internal/avatax"
	"github.com/yourorg/taxes-app/internal/taxjar"
)

// ProviderInstance is one entry of the stored provider list: a tagged
// union discriminated by the "provider" field. Exactly one of the config
// pointers is set after a successful decode.
type ProviderInstance struct {
	ID       string
	Provider string
	Avatax   *avatax.Config
	Taxjar   *taxjar.Config
}

// UnmarshalJSON decodes `{id, provider, config}` and dispatches the config
// blob to the matching provider struct. An unknown discriminator is a
// decode error, not a silently ignored entry.
func (p *ProviderInstance) UnmarshalJSON(data []byte) error {
	var head struct {
		ID       string          `json:"id"`
		Provider string          `json:"provider"`
		Config   json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	p.ID = head.ID
	p.Provider = head.Provider

	switch head.Provider {
	case avatax.ProviderName:
		var cfg avatax.Config
		if err := json.Unmarshal(head.Config, &cfg); err != nil {
			return fmt.Errorf("decoding avatax config of instance %q: %w", head.ID, err)
		}
		p.Avatax = &cfg
	case taxjar.ProviderName:
		var cfg taxjar.Config
		if err := json.Unmarshal(head.Config, &cfg); err != nil {
			return fmt.Errorf("decoding taxjar config of instance %q: %w", head.ID, err)
		}
		p.Taxjar = &cfg
	default:
		return fmt.Errorf("unknown provider %q in instance %q", head.Provider, head.ID)
	}
	return nil
}

// Obfuscated returns a display copy with all credentials masked. Never use
// the result for a live call.
func (p ProviderInstance) Obfuscated() ProviderInstance {
	if p.Avatax != nil {
		masked := p.Avatax.Obfuscated()
		p.Avatax = &masked
	}
	if p.Taxjar != nil {
		masked := p.Taxjar.Obfuscated()
		p.Taxjar = &masked
	}
	return p
}

// ProviderInstances is the decoded provider list of one installation.
type ProviderInstances []ProviderInstance

// ByID finds the instance a channel mapping points at.
func (p ProviderInstances) ByID(id string) (ProviderInstance, bool) {
	return lo.Find(p, func(instance ProviderInstance) bool {
		return instance.ID == id
	})
}
