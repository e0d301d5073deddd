package domain

import "time"

// MatchMethod identifies the strategy that connected a cart item to a
// product view.
type MatchMethod string

// Match methods, in chain priority order.
const (
	MethodStockCode        MatchMethod = "stock_code"
	MethodVariantStockCode MatchMethod = "variant_stock_code"
	MethodImageCode        MatchMethod = "image_code"
	MethodURL              MatchMethod = "url"
	MethodExtractedID      MatchMethod = "extracted_id"
	MethodTitleColor       MatchMethod = "title_color"
	MethodTitle            MatchMethod = "title"
	MethodPrice            MatchMethod = "price"
)

// Tier is a confidence tier for a matching method.
type Tier string

// Confidence tiers.
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Rank maps a tier to its numeric ordering (high > medium > low).
// Unknown tiers rank below low.
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Confidence is a Tier extended with the unmatched sentinel "none".
type Confidence string

// ConfidenceNone marks an item with no accepted match.
const ConfidenceNone Confidence = "none"

// methodConfidence is the static method-to-tier table. Confidence for a
// method is always read from here, never computed per match.
var methodConfidence = map[MatchMethod]Tier{
	MethodStockCode:        TierHigh,
	MethodVariantStockCode: TierHigh,
	MethodImageCode:        TierHigh,
	MethodURL:              TierMedium,
	MethodExtractedID:      TierMedium,
	MethodTitleColor:       TierMedium,
	MethodTitle:            TierLow,
	MethodPrice:            TierLow,
}

// MethodConfidence returns the fixed confidence tier for a match method.
func MethodConfidence(method MatchMethod) Tier {
	return methodConfidence[method]
}

// MatchedSignal is one piece of evidence connecting a cart item to a
// product view. Exact signals are set-intersection or equality based;
// inexact signals are threshold based (title similarity, price proximity).
type MatchedSignal struct {
	Method     MatchMethod `json:"method"`
	Confidence Tier        `json:"confidence"`
	Exact      bool        `json:"exact"`
}

// FieldSource records which side contributed a merged field value.
type FieldSource string

// Field sources.
const (
	SourceCart    FieldSource = "cart"
	SourceProduct FieldSource = "product"
)

// EnrichedCartItem is the merged output for one cart line. WasViewed
// discriminates the matched and unmatched branches of the single shape:
// when false, MatchConfidence is "none", MatchMethod is empty and the
// product-only fields stay zero.
type EnrichedCartItem struct {
	Title       string             `json:"title" validate:"required"`
	URL         string             `json:"url,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	Price       int64              `json:"price"`
	Currency    string             `json:"currency,omitempty"`
	Brand       string             `json:"brand,omitempty"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Rating      float64            `json:"rating,omitempty"`
	Quantity    int                `json:"quantity" validate:"min=0"`
	LineTotal   int64              `json:"lineTotal"`
	Identifiers ProductIdentifiers `json:"identifiers"`

	InCart          bool                   `json:"inCart" validate:"eq=true"`
	WasViewed       bool                   `json:"wasViewed"`
	MatchConfidence Confidence             `json:"matchConfidence" validate:"required,oneof=high medium low none"`
	MatchMethod     MatchMethod            `json:"matchMethod,omitempty"`
	MatchedSignals  []MatchedSignal        `json:"matchedSignals"`
	Sources         map[string]FieldSource `json:"sources" validate:"required"`
	MatchedVariant  *Variant               `json:"matchedVariant,omitempty"`
	EnrichedAt      time.Time              `json:"enrichedAt" validate:"required"`
}

// EnrichmentSummary holds session-level statistics over the primary
// methods only. Invariants: MatchedItems+UnmatchedItems == TotalItems and
// the ByConfidence counts sum to TotalItems.
type EnrichmentSummary struct {
	TotalItems     int                 `json:"totalItems"`
	MatchedItems   int                 `json:"matchedItems"`
	UnmatchedItems int                 `json:"unmatchedItems"`
	MatchRate      float64             `json:"matchRate"`
	ByConfidence   map[Confidence]int  `json:"byConfidence" validate:"required"`
	ByMethod       map[MatchMethod]int `json:"byMethod"`
}

// EnrichedCart is the full engine output for one session.
type EnrichedCart struct {
	Items      []EnrichedCartItem `json:"items" validate:"dive"`
	Summary    EnrichmentSummary  `json:"summary"`
	EnrichedAt time.Time          `json:"enrichedAt" validate:"required"`
}

// EnrichmentOptions are per-call knobs. Zero values fall back to the
// service defaults (minConfidence=high, titleSimilarityThreshold=0.8).
type EnrichmentOptions struct {
	MinConfidence            Tier    `json:"minConfidence,omitempty" binding:"omitempty,oneof=high medium low"`
	TitleSimilarityThreshold float64 `json:"titleSimilarityThreshold,omitempty"`
	Validate                 bool    `json:"validate,omitempty"`
}
