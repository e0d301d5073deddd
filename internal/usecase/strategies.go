package usecase

import (
	"regexp"
	"strings"

	"github.com/cartlens/backend/internal/domain"
)

// priceTolerance is the accepted deviation of the cart price from the
// product's observed price (±10%).
const priceTolerance = 0.10

// imageCodePattern finds stock-code-like tokens in an image filename: an
// uppercase-leading alphanumeric run of 4-10 characters immediately
// followed by a separator, e.g. "I3A6W-WHTL.jpg" yields I3A6W and WHTL.
// The left boundary is enforced in extractImageCodes: a token must start
// the filename or follow a non-alphanumeric character, never sit inside a
// longer run.
var imageCodePattern = regexp.MustCompile(`([A-Z][A-Za-z0-9]{3,9})[-_.]`)

// evalContext carries the per-call knobs a strategy may need.
type evalContext struct {
	titleThreshold float64
}

// cartCandidate is a cart item with its match inputs precomputed once:
// identifier sets, image-filename codes, the split title and the
// normalized URL.
type cartCandidate struct {
	item         *domain.CartItem
	identifiers  domain.ProductIdentifiers
	stockCodes   map[string]bool
	extractedIDs map[string]bool
	imageCodes   map[string]bool
	title        TitleParts
	normURL      string
}

// productCandidate is a product view with its match inputs precomputed.
type productCandidate struct {
	view         *domain.ProductView
	identifiers  domain.ProductIdentifiers
	stockCodes   map[string]bool
	extractedIDs map[string]bool
	variantCodes []variantCode
	colors       map[string]bool
	normURL      string
}

// variantCode pairs a normalized variant stock code with its variant,
// kept in declaration order so resolution is deterministic.
type variantCode struct {
	code    string
	variant *domain.Variant
}

// strategyFunc reports whether one strategy fires for a (cart item,
// product) pair, optionally naming the variant that carried the match.
// Strategies are pure: they read the precomputed candidates only.
type strategyFunc func(ec evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant)

// matchStrategy is one entry of the ordered matcher chain.
type matchStrategy struct {
	method domain.MatchMethod
	exact  bool
	// supporting strategies are collected as signals but never become
	// the primary match
	supporting bool
	fire       strategyFunc
}

// matchStrategies is the chain, in fixed priority order. Adding a
// strategy is a pure append; nothing else dispatches on methods.
var matchStrategies = []matchStrategy{
	{method: domain.MethodStockCode, exact: true, fire: matchStockCode},
	{method: domain.MethodVariantStockCode, exact: true, fire: matchVariantStockCode},
	{method: domain.MethodImageCode, exact: true, fire: matchImageCode},
	{method: domain.MethodURL, exact: true, fire: matchURL},
	{method: domain.MethodExtractedID, exact: true, fire: matchExtractedID},
	{method: domain.MethodTitleColor, exact: true, fire: matchTitleColor},
	{method: domain.MethodTitle, exact: false, fire: matchTitle},
	{method: domain.MethodPrice, exact: false, supporting: true, fire: matchPrice},
}

func matchStockCode(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	return setsIntersect(cart.stockCodes, product.stockCodes), nil
}

func matchVariantStockCode(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	// First declared variant wins when several codes intersect
	for _, vc := range product.variantCodes {
		if cart.stockCodes[vc.code] {
			return true, vc.variant
		}
	}
	return false, nil
}

func matchImageCode(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	return setsIntersect(cart.imageCodes, product.stockCodes), nil
}

func matchURL(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	return cart.normURL != "" && cart.normURL == product.normURL, nil
}

func matchExtractedID(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	return setsIntersect(cart.extractedIDs, product.extractedIDs), nil
}

func matchTitleColor(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	if cart.title.Color == "" || cart.title.Base == "" {
		return false, nil
	}
	if !strings.EqualFold(cart.title.Base, strings.TrimSpace(product.view.Title)) {
		return false, nil
	}
	return product.colors[strings.ToLower(cart.title.Color)], nil
}

func matchTitle(ec evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	return TitleSimilarity(cart.item.Title, product.view.Title) >= ec.titleThreshold, nil
}

// matchPrice checks the cart unit price against ±10% of the product's
// observed price. Mismatched currencies never fire; a cheap cap has real
// chances of sharing a price with an unrelated product, which is why the
// chain treats this as supporting-only evidence.
func matchPrice(_ evalContext, cart *cartCandidate, product *productCandidate) (bool, *domain.Variant) {
	if product.view.Price <= 0 {
		return false, nil
	}
	if cart.item.Currency != "" && product.view.Currency != "" &&
		!strings.EqualFold(cart.item.Currency, product.view.Currency) {
		return false, nil
	}

	unitPrice := cart.item.Price
	if unitPrice <= 0 && cart.item.Quantity > 0 {
		unitPrice = cart.item.LineTotal / int64(cart.item.Quantity)
	}
	if unitPrice <= 0 {
		return false, nil
	}

	diff := float64(unitPrice - product.view.Price)
	if diff < 0 {
		diff = -diff
	}

	return diff <= float64(product.view.Price)*priceTolerance, nil
}

func setsIntersect(a, b map[string]bool) bool {
	for v := range a {
		if b[v] {
			return true
		}
	}
	return false
}

// extractImageCodes pulls candidate stock codes out of an image URL
// filename, lowercased for comparison against normalized identifiers.
func extractImageCodes(imageURL string) map[string]bool {
	filename := imageFilename(imageURL)
	if filename == "" {
		return nil
	}

	codes := make(map[string]bool)
	for _, m := range imageCodePattern.FindAllStringSubmatchIndex(filename, -1) {
		start, end := m[2], m[3]
		if start > 0 && isAlphanumeric(filename[start-1]) {
			continue
		}
		codes[strings.ToLower(filename[start:end])] = true
	}
	return codes
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// imageFilename returns the last path segment of a URL, query and
// fragment stripped.
func imageFilename(rawURL string) string {
	s := rawURL
	if idx := strings.IndexAny(s, "?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}

// normalizeURL lowercases a URL and trims the trailing slash so that
// equal pages compare equal across formatting differences.
func normalizeURL(rawURL string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(rawURL)), "/")
}
