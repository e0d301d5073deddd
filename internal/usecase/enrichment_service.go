package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cartlens/backend/internal/domain"
)

// Engine defaults
const (
	defaultMinConfidence  = domain.TierHigh
	defaultTitleThreshold = 0.8
)

// EnrichmentConfig holds configuration for the enrichment service
type EnrichmentConfig struct {
	MinConfidence            domain.Tier
	TitleSimilarityThreshold float64
	EnableDebugLogging       bool
}

// EnrichmentService links cart items to product views captured earlier in
// the same session and merges the two records. It holds no state between
// invocations; every call works on fresh inputs and returns fresh output.
type EnrichmentService struct {
	extractor          domain.IdentifierExtractor
	minConfidence      domain.Tier
	titleThreshold     float64
	enableDebugLogging bool
	validate           *validator.Validate
}

// NewEnrichmentService creates an enrichment service with the given
// configuration, falling back to defaults for zero values.
func NewEnrichmentService(extractor domain.IdentifierExtractor, config EnrichmentConfig) *EnrichmentService {
	minConfidence := config.MinConfidence
	if minConfidence.Rank() == 0 {
		minConfidence = defaultMinConfidence
	}

	threshold := config.TitleSimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultTitleThreshold
	}

	return &EnrichmentService{
		extractor:          extractor,
		minConfidence:      minConfidence,
		titleThreshold:     threshold,
		enableDebugLogging: config.EnableDebugLogging,
		validate:           validator.New(),
	}
}

// primaryMatch is the authoritative reason for a match: the
// first-encountered signal of the highest tier seen for an item, with the
// product (and variant, when one carried the match) it resolved to.
type primaryMatch struct {
	method  domain.MatchMethod
	tier    domain.Tier
	product *productCandidate
	variant *domain.Variant
}

// EnrichCart matches every cart item against the session's product views
// and returns one enriched item per input item, count-preserving, plus
// session-level statistics. "No match" is a first-class outcome, never an
// error; the only error paths are context cancellation and, when
// opts.Validate is set, output re-validation failure.
func (s *EnrichmentService) EnrichCart(
	ctx context.Context,
	cart []domain.CartItem,
	products []domain.ProductView,
	opts domain.EnrichmentOptions,
) (*domain.EnrichedCart, error) {
	minConfidence := s.minConfidence
	if opts.MinConfidence.Rank() > 0 {
		minConfidence = opts.MinConfidence
	}

	ec := evalContext{titleThreshold: s.titleThreshold}
	if opts.TitleSimilarityThreshold > 0 && opts.TitleSimilarityThreshold <= 1 {
		ec.titleThreshold = opts.TitleSimilarityThreshold
	}

	enrichedAt := time.Now().UTC()

	candidates := make([]productCandidate, len(products))
	for i := range products {
		candidates[i] = s.newProductCandidate(&products[i])
	}

	items := make([]domain.EnrichedCartItem, 0, len(cart))
	for i := range cart {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		cc := s.newCartCandidate(&cart[i])
		signals, primary := s.matchItem(ec, &cc, candidates)

		if primary != nil && primary.tier.Rank() < minConfidence.Rank() {
			if s.enableDebugLogging {
				log.Printf("[ENRICH] %q: primary %s (%s) below minimum confidence %s, reporting unmatched",
					cc.item.Title, primary.method, primary.tier, minConfidence)
			}
			primary = nil
		}

		items = append(items, s.buildItem(&cc, primary, signals, enrichedAt))
	}

	result := &domain.EnrichedCart{
		Items:      items,
		Summary:    buildSummary(items),
		EnrichedAt: enrichedAt,
	}

	if opts.Validate {
		if err := s.validate.Struct(result); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrOutputValidation, err)
		}
	}

	return result, nil
}

// matchItem evaluates every strategy against every candidate product.
// Signal collection never short-circuits: the full product list is
// scanned so diagnostics see everything that fired. Only primary
// selection is locked early, by never replacing a primary with an
// equal-or-lower tier; the first-encountered signal of the highest tier
// wins, scanning products in input order and strategies in chain order.
func (s *EnrichmentService) matchItem(ec evalContext, cart *cartCandidate, products []productCandidate) ([]domain.MatchedSignal, *primaryMatch) {
	signals := make([]domain.MatchedSignal, 0, 4)
	seen := make(map[domain.MatchMethod]bool)

	var primary *primaryMatch

	for i := range products {
		product := &products[i]

		for _, strategy := range matchStrategies {
			fired, variant := strategy.fire(ec, cart, product)
			if !fired {
				continue
			}

			tier := domain.MethodConfidence(strategy.method)
			if !seen[strategy.method] {
				seen[strategy.method] = true
				signals = append(signals, domain.MatchedSignal{
					Method:     strategy.method,
					Confidence: tier,
					Exact:      strategy.exact,
				})
			}

			// Supporting signals (price) are evidence only
			if strategy.supporting {
				continue
			}

			if primary == nil || tier.Rank() > primary.tier.Rank() {
				primary = &primaryMatch{
					method:  strategy.method,
					tier:    tier,
					product: product,
					variant: variant,
				}
			}
		}
	}

	if s.enableDebugLogging {
		if primary != nil {
			log.Printf("[ENRICH] %q matched %q via %s (%s), %d signal(s)",
				cart.item.Title, primary.product.view.Title, primary.method, primary.tier, len(signals))
		} else {
			log.Printf("[ENRICH] %q: no match among %d product view(s)", cart.item.Title, len(products))
		}
	}

	return signals, primary
}

// newCartCandidate precomputes the cart side of the match: normalized
// identifiers (with extractor-materialized IDs folded in), image-filename
// codes and the split title.
func (s *EnrichmentService) newCartCandidate(item *domain.CartItem) cartCandidate {
	identifiers := item.Identifiers.Normalize()
	if item.URL != "" && s.extractor != nil {
		identifiers = identifiers.Merge(domain.ProductIdentifiers{ExtractedIDs: s.extractor.Extract(item.URL)})
	}

	return cartCandidate{
		item:         item,
		identifiers:  identifiers,
		stockCodes:   stringSet(identifiers.StockCodes),
		extractedIDs: stringSet(identifiers.ExtractedIDs),
		imageCodes:   extractImageCodes(item.ImageURL),
		title:        SplitTitle(item.Title),
		normURL:      normalizeURL(item.URL),
	}
}

func (s *EnrichmentService) newProductCandidate(view *domain.ProductView) productCandidate {
	identifiers := view.Identifiers.Normalize()
	if view.URL != "" && s.extractor != nil {
		identifiers = identifiers.Merge(domain.ProductIdentifiers{ExtractedIDs: s.extractor.Extract(view.URL)})
	}

	variantCodes := make([]variantCode, 0, len(view.Variants))
	seenCodes := make(map[string]bool, len(view.Variants))
	for i := range view.Variants {
		code := strings.ToLower(strings.TrimSpace(view.Variants[i].StockCode))
		if code == "" || seenCodes[code] {
			continue
		}
		seenCodes[code] = true
		variantCodes = append(variantCodes, variantCode{code: code, variant: &view.Variants[i]})
	}

	return productCandidate{
		view:         view,
		identifiers:  identifiers,
		stockCodes:   stringSet(identifiers.StockCodes),
		extractedIDs: stringSet(identifiers.ExtractedIDs),
		variantCodes: variantCodes,
		colors:       stringSet(view.Colors()),
		normURL:      normalizeURL(view.URL),
	}
}

// buildItem merges cart and product fields under the fixed precedence
// table: title/url/imageUrl prefer the cart (what the user actually saw),
// transaction facts are cart-only, catalog facts are product-only, and
// identifiers are the union of both sides. Sources records per-field
// provenance. When primary is nil the item takes the unmatched branch but
// still reports the collected signals for diagnostics.
func (s *EnrichmentService) buildItem(
	cart *cartCandidate,
	primary *primaryMatch,
	signals []domain.MatchedSignal,
	enrichedAt time.Time,
) domain.EnrichedCartItem {
	item := cart.item

	out := domain.EnrichedCartItem{
		Title:           item.Title,
		URL:             item.URL,
		ImageURL:        item.ImageURL,
		Price:           item.Price,
		Currency:        item.Currency,
		Quantity:        item.Quantity,
		LineTotal:       item.LineTotal,
		Identifiers:     cart.identifiers,
		InCart:          true,
		WasViewed:       false,
		MatchConfidence: domain.ConfidenceNone,
		MatchedSignals:  signals,
		Sources:         make(map[string]domain.FieldSource, 12),
		EnrichedAt:      enrichedAt,
	}

	setSource(out.Sources, "title", domain.SourceCart, item.Title != "")
	setSource(out.Sources, "url", domain.SourceCart, item.URL != "")
	setSource(out.Sources, "imageUrl", domain.SourceCart, item.ImageURL != "")
	setSource(out.Sources, "price", domain.SourceCart, true)
	setSource(out.Sources, "currency", domain.SourceCart, item.Currency != "")
	setSource(out.Sources, "quantity", domain.SourceCart, true)
	setSource(out.Sources, "lineTotal", domain.SourceCart, true)

	if primary == nil {
		return out
	}

	view := primary.product.view

	out.WasViewed = true
	out.MatchConfidence = domain.Confidence(primary.tier)
	out.MatchMethod = primary.method
	out.MatchedVariant = primary.variant
	out.Identifiers = cart.identifiers.Merge(primary.product.identifiers)

	// Cart wins title/url/imageUrl; the product fills the gaps
	if out.Title == "" && view.Title != "" {
		out.Title = view.Title
		out.Sources["title"] = domain.SourceProduct
	}
	if out.URL == "" && view.URL != "" {
		out.URL = view.URL
		out.Sources["url"] = domain.SourceProduct
	}
	if out.ImageURL == "" && view.ImageURL != "" {
		out.ImageURL = view.ImageURL
		out.Sources["imageUrl"] = domain.SourceProduct
	}

	// Catalog facts exist only on the product side
	out.Brand = view.Brand
	out.Description = view.Description
	out.Category = view.Category
	out.Rating = view.Rating
	setSource(out.Sources, "brand", domain.SourceProduct, view.Brand != "")
	setSource(out.Sources, "description", domain.SourceProduct, view.Description != "")
	setSource(out.Sources, "category", domain.SourceProduct, view.Category != "")
	setSource(out.Sources, "rating", domain.SourceProduct, view.Rating != 0)

	return out
}

func setSource(sources map[string]domain.FieldSource, field string, source domain.FieldSource, present bool) {
	if present {
		sources[field] = source
	}
}

// buildSummary folds the per-item results into session statistics.
// Breakdowns count the primary method only, not every collected signal.
func buildSummary(items []domain.EnrichedCartItem) domain.EnrichmentSummary {
	summary := domain.EnrichmentSummary{
		TotalItems: len(items),
		ByConfidence: map[domain.Confidence]int{
			domain.Confidence(domain.TierHigh):   0,
			domain.Confidence(domain.TierMedium): 0,
			domain.Confidence(domain.TierLow):    0,
			domain.ConfidenceNone:                0,
		},
		ByMethod: make(map[domain.MatchMethod]int),
	}

	for i := range items {
		summary.ByConfidence[items[i].MatchConfidence]++
		if items[i].WasViewed {
			summary.MatchedItems++
			summary.ByMethod[items[i].MatchMethod]++
		} else {
			summary.UnmatchedItems++
		}
	}

	if summary.TotalItems > 0 {
		rate := float64(summary.MatchedItems) / float64(summary.TotalItems) * 100
		summary.MatchRate = math.Round(rate*100) / 100
	}

	return summary
}
