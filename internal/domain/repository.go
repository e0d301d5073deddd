package domain

// IdentifierExtractor pulls store-specific product identifiers out of a
// URL. Implementations must be pure and idempotent; an empty result is a
// valid, non-error outcome.
type IdentifierExtractor interface {
	Extract(rawURL string) []string
}
