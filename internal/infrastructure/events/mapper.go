// Package events converts the browser extension's raw cart_updated and
// product_viewed payloads into the engine's normalized domain shapes.
package events

import (
	"regexp"
	"strings"

	"github.com/cartlens/backend/internal/domain"
)

// RawVariant is a variant entry as scraped from a product page.
type RawVariant struct {
	StockCode string `json:"stockCode"`
	URL       string `json:"url,omitempty"`
}

// RawCartItem is one line of a cart_updated event, prices still in the
// scraped display format (e.g. "£12.99").
type RawCartItem struct {
	Title        string   `json:"title" binding:"required"`
	URL          string   `json:"url,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	StoreID      string   `json:"storeId,omitempty"`
	Price        string   `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Quantity     int      `json:"quantity,omitempty"`
	LineTotal    string   `json:"lineTotal,omitempty"`
	StockCodes   []string `json:"stockCodes,omitempty"`
	ExtractedIDs []string `json:"extractedIds,omitempty"`
	CatalogIDs   []string `json:"catalogIds,omitempty"`
}

// RawProductView is one product_viewed event.
type RawProductView struct {
	Title        string       `json:"title" binding:"required"`
	URL          string       `json:"url,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	StoreID      string       `json:"storeId,omitempty"`
	Price        string       `json:"price,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	Color        string       `json:"color,omitempty"`
	Brand        string       `json:"brand,omitempty"`
	Description  string       `json:"description,omitempty"`
	Category     string       `json:"category,omitempty"`
	Rating       float64      `json:"rating,omitempty"`
	StockCodes   []string     `json:"stockCodes,omitempty"`
	ExtractedIDs []string     `json:"extractedIds,omitempty"`
	CatalogIDs   []string     `json:"catalogIds,omitempty"`
	Variants     []RawVariant `json:"variants,omitempty"`
}

// priceCharsPattern keeps only the numeric part of a display price,
// dropping currency symbols, codes and surrounding text.
var priceCharsPattern = regexp.MustCompile(`[0-9][0-9.,]*`)

// MapCartItems converts raw cart lines into engine inputs. Identifiers
// are always populated (possibly empty), never nil; quantity defaults to
// 1 and a missing line total is derived from price and quantity.
func MapCartItems(raw []RawCartItem) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, MapCartItem(r))
	}
	return items
}

// MapCartItem converts a single raw cart line.
func MapCartItem(raw RawCartItem) domain.CartItem {
	quantity := raw.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	price := ParsePriceMinor(raw.Price)
	lineTotal := ParsePriceMinor(raw.LineTotal)
	if lineTotal == 0 {
		lineTotal = price * int64(quantity)
	}

	return domain.CartItem{
		Title:     strings.TrimSpace(raw.Title),
		URL:       strings.TrimSpace(raw.URL),
		ImageURL:  strings.TrimSpace(raw.ImageURL),
		StoreID:   strings.TrimSpace(raw.StoreID),
		Price:     price,
		Currency:  normalizeCurrency(raw.Currency),
		Quantity:  quantity,
		LineTotal: lineTotal,
		Identifiers: domain.ProductIdentifiers{
			StockCodes:   raw.StockCodes,
			ExtractedIDs: raw.ExtractedIDs,
			CatalogIDs:   raw.CatalogIDs,
		}.Normalize(),
	}
}

// MapProductViews converts raw product events into engine inputs.
func MapProductViews(raw []RawProductView) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(raw))
	for _, r := range raw {
		views = append(views, MapProductView(r))
	}
	return views
}

// MapProductView converts a single raw product event. Color and variant
// fields are carried only when explicitly present in the payload.
func MapProductView(raw RawProductView) domain.ProductView {
	var variants []domain.Variant
	for _, v := range raw.Variants {
		code := strings.TrimSpace(v.StockCode)
		if code == "" {
			continue
		}
		variants = append(variants, domain.Variant{
			StockCode: code,
			URL:       strings.TrimSpace(v.URL),
		})
	}

	return domain.ProductView{
		Title:       strings.TrimSpace(raw.Title),
		URL:         strings.TrimSpace(raw.URL),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		StoreID:     strings.TrimSpace(raw.StoreID),
		Price:       ParsePriceMinor(raw.Price),
		Currency:    normalizeCurrency(raw.Currency),
		Color:       strings.TrimSpace(raw.Color),
		Brand:       strings.TrimSpace(raw.Brand),
		Description: strings.TrimSpace(raw.Description),
		Category:    strings.TrimSpace(raw.Category),
		Rating:      raw.Rating,
		Identifiers: domain.ProductIdentifiers{
			StockCodes:   raw.StockCodes,
			ExtractedIDs: raw.ExtractedIDs,
			CatalogIDs:   raw.CatalogIDs,
		}.Normalize(),
		Variants: variants,
	}
}

// ParsePriceMinor converts a scraped display price into integer minor
// units: "£12.99" -> 1299, "1,299.50" -> 129950, "18" -> 1800. Unparseable
// values map to 0.
func ParsePriceMinor(display string) int64 {
	numeric := priceCharsPattern.FindString(display)
	if numeric == "" {
		return 0
	}

	// Thousands separators
	numeric = strings.ReplaceAll(numeric, ",", "")

	whole := numeric
	cents := "00"
	if idx := strings.LastIndex(numeric, "."); idx >= 0 {
		whole = numeric[:idx]
		cents = strings.ReplaceAll(numeric[idx+1:], ".", "")
		switch len(cents) {
		case 0:
			cents = "00"
		case 1:
			cents += "0"
		default:
			cents = cents[:2]
		}
	}

	var value int64
	for _, c := range whole + cents {
		if c < '0' || c > '9' {
			return 0
		}
		value = value*10 + int64(c-'0')
	}

	return value
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
