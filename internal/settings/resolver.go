package settings

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/avatax"
	"github.com/yourorg/taxes-app/internal/taxes"
	"github.com/yourorg/taxes-app/internal/taxjar"
)

// Metadata keys under which the dashboard stores the encrypted
// configuration blobs.
const (
	metadataKeyProviders      = "providers"
	metadataKeyChannels       = "channels"
	metadataKeyAvataxTaxCodes = "avatax-tax-code-map"
	metadataKeyTaxjarTaxCodes = "taxjar-tax-code-map"
)

// Resolver turns a channel slug plus the request's encrypted metadata into
// a ready-to-call provider service. It is the single factory dispatch
// point: nothing else constructs provider services.
type Resolver struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewResolver creates a resolver. httpClient may be nil; provider clients
// then use their own default timeout.
func NewResolver(httpClient *http.Client, logger *zap.Logger) *Resolver {
	return &Resolver{httpClient: httpClient, logger: logger}
}

// Resolve walks the configuration failure ladder in order. Each rung keeps
// its own error kind so the caller can tell an unconfigured installation
// from a corrupt one:
//
//  1. no channel slug in the payload: MissingChannelSlug
//  2. empty metadata, installed but never configured: MissingMetadata
//  3. undecryptable or unparseable blobs: ConfigBroken
//  4. no channel mappings stored at all: ProviderNotAssignedToChannel
//  5. slug absent from the mapping: WrongChannel
//  6. mapping points at a deleted provider instance: ConfigBroken
func (r *Resolver) Resolve(channelSlug string, metadata *MetadataCache) (taxes.Provider, error) {
	if channelSlug == "" {
		return nil, taxes.NewError(taxes.KindMissingChannelSlug, "payload carries no channel slug")
	}
	if metadata.Len() == 0 {
		return nil, taxes.NewError(taxes.KindMissingMetadata, "app installed but no metadata configured")
	}

	var providers ProviderInstances
	if err := r.decode(metadata, metadataKeyProviders, &providers); err != nil {
		return nil, err
	}

	var channels ChannelEntries
	if err := r.decode(metadata, metadataKeyChannels, &channels); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, taxes.NewError(taxes.KindProviderNotAssigned, "no channels are configured")
	}

	entry, found := channels.BySlug(channelSlug)
	if !found {
		return nil, taxes.NewError(taxes.KindWrongChannel, "channel %q is not served by this installation", channelSlug)
	}

	instance, found := providers.ByID(entry.Config.ProviderInstanceID)
	if !found {
		return nil, taxes.NewError(taxes.KindConfigBroken,
			"channel %q references provider instance %q which does not exist", channelSlug, entry.Config.ProviderInstanceID)
	}

	r.logger.Debug("resolved provider for channel",
		zap.String("channel", channelSlug),
		zap.String("provider", instance.Provider),
		zap.String("instance_id", instance.ID),
	)
	return r.build(instance, metadata)
}

// build constructs the provider service for a resolved instance.
func (r *Resolver) build(instance ProviderInstance, metadata *MetadataCache) (taxes.Provider, error) {
	switch {
	case instance.Avatax != nil:
		if err := instance.Avatax.Validate(); err != nil {
			return nil, taxes.WrapError(taxes.KindConfigBroken, err, "avatax instance %q", instance.ID)
		}
		matches, err := r.taxCodeMatches(metadata, metadataKeyAvataxTaxCodes)
		if err != nil {
			return nil, err
		}
		client := avatax.NewClient(*instance.Avatax, r.httpClient)
		return avatax.NewService(*instance.Avatax, client, matches, r.logger), nil

	case instance.Taxjar != nil:
		if err := instance.Taxjar.Validate(); err != nil {
			return nil, taxes.WrapError(taxes.KindConfigBroken, err, "taxjar instance %q", instance.ID)
		}
		matches, err := r.taxCodeMatches(metadata, metadataKeyTaxjarTaxCodes)
		if err != nil {
			return nil, err
		}
		client := taxjar.NewClient(*instance.Taxjar, r.httpClient)
		return taxjar.NewService(*instance.Taxjar, client, matches, r.logger), nil

	default:
		return nil, taxes.NewError(taxes.KindConfigBroken, "provider instance %q has no configuration", instance.ID)
	}
}

// decode reads and parses one metadata blob. An absent key leaves the
// destination at its zero value; a present but broken blob is ConfigBroken.
func (r *Resolver) decode(metadata *MetadataCache, key string, dst any) error {
	raw, present, err := metadata.Get(key)
	if err != nil {
		return taxes.WrapError(taxes.KindConfigBroken, err, "decrypting metadata %q", key)
	}
	if !present {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return taxes.WrapError(taxes.KindConfigBroken, err, "parsing metadata %q", key)
	}
	return nil
}

func (r *Resolver) taxCodeMatches(metadata *MetadataCache, key string) (taxes.TaxCodeMatches, error) {
	var matches taxes.TaxCodeMatches
	if err := r.decode(metadata, key, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
