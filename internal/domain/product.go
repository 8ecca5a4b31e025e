package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

type Variant struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	SKU               string          `json:"sku,omitempty"`
	InventoryQuantity int             `json:"inventory_quantity"`
	Image             *Image          `json:"image,omitempty"`
}

type Product struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Handle         string    `json:"handle"`
	Status         string    `json:"status"`
	TotalInventory int       `json:"total_inventory"`
	Variants       []Variant `json:"variants"`
	FeaturedImage  *Image    `json:"featured_image,omitempty"`
}

// MatchesSearch reports whether the product matches the admin search box:
// case-insensitive substring over title and handle.
func (p Product) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Handle), q)
}

// LineImage picks the image shown next to a cart line: the variant image when
// set, the product's featured image otherwise.
func (p Product) LineImage(v Variant) string {
	if v.Image != nil {
		return v.Image.URL
	}
	if p.FeaturedImage != nil {
		return p.FeaturedImage.URL
	}
	return ""
}

// FindVariant returns the variant with the given ID, or false when the
// product has no such variant.
func (p Product) FindVariant(variantID string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// NewProduct is the input for the product create screen. Only Title is
// required; everything else carries the platform defaults.
type NewProduct struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Handle      string          `json:"handle,omitempty"`
	ProductType string          `json:"product_type,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Status      string          `json:"status,omitempty"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku,omitempty"`
	Inventory   int             `json:"inventory"`
}
