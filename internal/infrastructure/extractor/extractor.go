// Package extractor pulls store-specific product identifiers out of
// URLs. Pattern tables live in a versioned registry so store onboarding
// never touches code; extraction itself is a pure function of the URL.
package extractor

import (
	"net/url"
	"strings"
)

// Extractor applies a compiled registry to URLs. It satisfies
// domain.IdentifierExtractor.
type Extractor struct {
	registry *Registry
}

// New creates an extractor backed by the given registry.
func New(registry *Registry) *Extractor {
	return &Extractor{registry: registry}
}

// Extract returns every identifier the registry's patterns capture in the
// URL, lowercased and deduplicated. It is idempotent and side-effect
// free; an empty result is a valid, non-error outcome (unparseable URLs
// included).
func (e *Extractor) Extract(rawURL string) []string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	target := parsed.RequestURI()
	if parsed.Host == "" {
		// Bare paths still get the generic patterns
		target = rawURL
	}

	var ids []string
	seen := make(map[string]bool)
	for _, pattern := range e.registry.patternsFor(parsed.Hostname()) {
		for _, m := range pattern.FindAllStringSubmatch(target, -1) {
			id := strings.ToLower(m[1])
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}
