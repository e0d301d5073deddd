package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/cartlens/backend/internal/domain"
)

// RegistrySpec is the on-disk shape of a pattern registry. The registry
// is an external, versioned data source: store onboarding edits the YAML
// file, never this package.
type RegistrySpec struct {
	Version string      `mapstructure:"version"`
	Stores  []StoreSpec `mapstructure:"stores"`
	Generic []string    `mapstructure:"generic"`
}

// StoreSpec declares the identifier patterns for one storefront.
type StoreSpec struct {
	Store    string   `mapstructure:"store"`
	Hosts    []string `mapstructure:"hosts"`
	Patterns []string `mapstructure:"patterns"`
}

// Registry is the compiled, immutable pattern table. Once constructed it
// is never mutated, so it is safe for concurrent use.
type Registry struct {
	version string
	stores  []storePatterns
	generic []*regexp.Regexp
}

type storePatterns struct {
	store    string
	hosts    []string
	patterns []*regexp.Regexp
}

// NewRegistry compiles a spec into a Registry. Every pattern must carry
// exactly one capture group (the identifier).
func NewRegistry(spec RegistrySpec) (*Registry, error) {
	registry := &Registry{version: spec.Version}

	for _, store := range spec.Stores {
		compiled, err := compilePatterns(store.Patterns)
		if err != nil {
			return nil, fmt.Errorf("%w: store %q: %v", domain.ErrInvalidRegistry, store.Store, err)
		}
		registry.stores = append(registry.stores, storePatterns{
			store:    store.Store,
			hosts:    store.Hosts,
			patterns: compiled,
		})
	}

	generic, err := compilePatterns(spec.Generic)
	if err != nil {
		return nil, fmt.Errorf("%w: generic patterns: %v", domain.ErrInvalidRegistry, err)
	}
	registry.generic = generic

	return registry, nil
}

// LoadRegistry reads a registry spec from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidRegistry, path, err)
	}

	var spec RegistrySpec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrInvalidRegistry, path, err)
	}

	return NewRegistry(spec)
}

// DefaultRegistry returns the built-in pattern table covering the common
// storefront URL shapes the extension ships against.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(defaultSpec)
	if err != nil {
		// The built-in spec is covered by tests; failing to compile it is
		// a programming error.
		panic(err)
	}
	return registry
}

var defaultSpec = RegistrySpec{
	Version: "builtin-1",
	Stores: []StoreSpec{
		{
			Store: "amazon",
			Hosts: []string{"amazon.com", "amazon.co.uk", "amazon.de", "amazon.ca"},
			Patterns: []string{
				`/(?:dp|gp/product|gp/aw/d)/([A-Z0-9]{10})(?:[/?]|$)`,
			},
		},
		{
			Store: "ebay",
			Hosts: []string{"ebay.com", "ebay.co.uk"},
			Patterns: []string{
				`/itm/(?:[^/]+/)?(\d{9,15})`,
			},
		},
		{
			Store: "etsy",
			Hosts: []string{"etsy.com"},
			Patterns: []string{
				`/listing/(\d{6,})`,
			},
		},
	},
	Generic: []string{
		// Path-embedded numeric product IDs: /product/123456789, /p/9876543210
		`/(?:p|product|products|item|prod)/(?:[^/?#]+/)*?(\d{6,16})(?:[/?#]|$)`,
		// Trailing numeric ID segment: /sport-cap/16675013342
		`/(\d{8,16})(?:[/?#]|$)`,
		// Query-parameter IDs: ?product_id=..., ?sku=..., ?variant=...
		`[?&](?:product_id|productid|pid|sku|skuid|variant|item_id|itemid)=([A-Za-z0-9._-]+)`,
	},
}

// Version reports the registry's data-source version for audit trails.
func (r *Registry) Version() string {
	return r.version
}

// patternsFor picks the pattern lists that apply to a host: the matching
// store's patterns first, the generic fallbacks after.
func (r *Registry) patternsFor(host string) []*regexp.Regexp {
	host = strings.ToLower(host)

	var patterns []*regexp.Regexp
	for _, store := range r.stores {
		for _, h := range store.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				patterns = append(patterns, store.patterns...)
				break
			}
		}
	}

	return append(patterns, r.generic...)
}

func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("pattern %q must have exactly one capture group", expr)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
