package settings

import (
	"github.com/yourorg/taxes-app/internal/taxes"
)

// MetadataCache reads decrypted metadata values for one webhook invocation.
// It is constructed per request and passed explicitly to whoever needs it;
// the decrypted form of each key is kept so the providers blob is not
// decrypted twice when both the channel mapping and the tax-code table are
// read. Never shared across requests.
type MetadataCache struct {
	secret    string
	items     map[string]string
	decrypted map[string]string
}

// NewMetadataCache wraps the metadata items of one webhook payload.
func NewMetadataCache(secret string, items []taxes.MetadataItem) *MetadataCache {
	indexed := make(map[string]string, len(items))
	for _, item := range items {
		indexed[item.Key] = item.Value
	}
	return &MetadataCache{
		secret:    secret,
		items:     indexed,
		decrypted: make(map[string]string),
	}
}

// Len reports how many metadata entries the payload carried.
func (c *MetadataCache) Len() int { return len(c.items) }

// Get returns the decrypted value for a key. The second return is false
// when the key is absent; a present but undecryptable value is an error.
func (c *MetadataCache) Get(key string) (string, bool, error) {
	if cached, ok := c.decrypted[key]; ok {
		return cached, true, nil
	}
	raw, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	plaintext, err := DecryptValue(c.secret, raw)
	if err != nil {
		return "", true, err
	}
	c.decrypted[key] = plaintext
	return plaintext, true, nil
}
