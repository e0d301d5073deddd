package domain

import "strings"

// ProductIdentifiers groups the identifier spaces a cart item or product
// view can carry. Values are normalized to lowercase and deduplicated;
// slices may be empty but are never nil after Normalize.
type ProductIdentifiers struct {
	StockCodes   []string `json:"stockCodes"`
	ExtractedIDs []string `json:"extractedIds"`
	CatalogIDs   []string `json:"catalogIds"`
}

// Normalize returns a copy with every identifier lowercased, trimmed and
// deduplicated, preserving first-seen order.
func (p ProductIdentifiers) Normalize() ProductIdentifiers {
	return ProductIdentifiers{
		StockCodes:   normalizeIDSet(p.StockCodes),
		ExtractedIDs: normalizeIDSet(p.ExtractedIDs),
		CatalogIDs:   normalizeIDSet(p.CatalogIDs),
	}
}

// Merge unions the identifiers of both sides, deduplicated per field.
func (p ProductIdentifiers) Merge(other ProductIdentifiers) ProductIdentifiers {
	return ProductIdentifiers{
		StockCodes:   normalizeIDSet(append(append([]string{}, p.StockCodes...), other.StockCodes...)),
		ExtractedIDs: normalizeIDSet(append(append([]string{}, p.ExtractedIDs...), other.ExtractedIDs...)),
		CatalogIDs:   normalizeIDSet(append(append([]string{}, p.CatalogIDs...), other.CatalogIDs...)),
	}
}

// IsEmpty reports whether no identifier of any kind is present.
func (p ProductIdentifiers) IsEmpty() bool {
	return len(p.StockCodes) == 0 && len(p.ExtractedIDs) == 0 && len(p.CatalogIDs) == 0
}

func normalizeIDSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// CartItem is one normalized line of a shopping cart event. Prices are
// integer minor units of the currency. Read-only input to the engine.
type CartItem struct {
	Title       string             `json:"title"`
	URL         string             `json:"url,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	StoreID     string             `json:"storeId,omitempty"`
	Price       int64              `json:"price"`
	Currency    string             `json:"currency,omitempty"`
	Quantity    int                `json:"quantity"`
	LineTotal   int64              `json:"lineTotal"`
	Identifiers ProductIdentifiers `json:"identifiers"`
}

// Variant is a variant-level identifier on a product view (a size or
// color SKU exposed on the product page).
type Variant struct {
	StockCode string `json:"stockCode"`
	URL       string `json:"url,omitempty"`
}

// ProductView is one normalized product-detail-page visit. Read-only input.
type ProductView struct {
	Title       string             `json:"title"`
	URL         string             `json:"url,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	StoreID     string             `json:"storeId,omitempty"`
	Price       int64              `json:"price"`
	Currency    string             `json:"currency,omitempty"`
	Color       string             `json:"color,omitempty"`
	Brand       string             `json:"brand,omitempty"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Rating      float64            `json:"rating,omitempty"`
	Identifiers ProductIdentifiers `json:"identifiers"`
	Variants    []Variant          `json:"variants,omitempty"`
}

// Colors returns the product's color list, lowercased. Product pages
// expose a single selected color; multi-color values arrive "/"-separated.
func (p ProductView) Colors() []string {
	if strings.TrimSpace(p.Color) == "" {
		return nil
	}
	parts := strings.Split(p.Color, "/")
	colors := make([]string, 0, len(parts))
	for _, c := range parts {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}
