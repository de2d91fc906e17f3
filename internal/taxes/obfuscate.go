package taxes

import "strings"

// ObfuscateSecret masks a credential for display, keeping at most the last
// four characters. Configurations are only ever obfuscated when shown, never
// when used for a live call.
func ObfuscateSecret(secret string) string {
	if secret == "" {
		return ""
	}
	visible := 4
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-visible) + secret[len(secret)-visible:]
}
