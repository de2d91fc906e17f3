package settings

import (
	"github.com/samber/lo"
)

// ChannelConfig points one sales channel at one provider instance. At most
// one active provider per channel; a channel without a mapping is an error
// state, never a silent no-op.
type ChannelConfig struct {
	ProviderInstanceID string `json:"providerInstanceId"`
	Slug               string `json:"slug"`
}

// ChannelEntry is one stored channel mapping.
type ChannelEntry struct {
	ID     string        `json:"id"`
	Config ChannelConfig `json:"config"`
}

// ChannelEntries is the decoded channel mapping list of one installation.
type ChannelEntries []ChannelEntry

// BySlug finds the mapping for the channel a webhook fired for.
func (e ChannelEntries) BySlug(slug string) (ChannelEntry, bool) {
	return lo.Find(e, func(entry ChannelEntry) bool {
		return entry.Config.Slug == slug
	})
}
