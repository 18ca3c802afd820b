package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyMaterial is the content hashed to form a CacheKey. Field order is
// fixed by the struct tags, not map iteration, so the same logical call
// always hashes identically (§3's CacheKey invariant).
type keyMaterial struct {
	ProviderID string         `json:"providerId"`
	Prompt     string         `json:"prompt"`
	Vars       map[string]any `json:"vars,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

// Key computes the content-addressed cache key for one provider call:
// sha256 of the rendered prompt plus the provider identity and any
// test/provider options that can affect the response.
func Key(providerID, renderedPrompt string, vars, options map[string]any) string {
	material := keyMaterial{
		ProviderID: providerID,
		Prompt:     renderedPrompt,
		Vars:       vars,
		Options:    options,
	}
	// json.Marshal sorts map keys lexicographically, so two calls with the
	// same logical vars/options in different insertion order still hash
	// identically.
	b, err := json.Marshal(material)
	if err != nil {
		// Marshal only fails on unsupported types (channels, funcs) which
		// should never appear in vars/options; fall back to hashing the
		// prompt+providerID alone rather than panicking mid-evaluation.
		b = []byte(providerID + "\x00" + renderedPrompt)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
