package domain

import (
	"strings"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
)

// ProductView wraps a raw backend product with derived display accessors.
// Components never do their own currency math; they go through this type.
type ProductView struct {
	medusa.Product
}

// NewProductView wraps a backend product.
func NewProductView(p medusa.Product) ProductView {
	return ProductView{Product: p}
}

// VariantByID returns the variant with the given ID, or nil.
func (p ProductView) VariantByID(id string) *medusa.Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// VariantAt returns the variant at the given index, or nil when out of range.
func (p ProductView) VariantAt(index int) *medusa.Variant {
	if index < 0 || index >= len(p.Variants) {
		return nil
	}
	return &p.Variants[index]
}

// HasPrice reports whether any variant carries at least one price.
func (p ProductView) HasPrice() bool {
	for _, v := range p.Variants {
		if len(v.Prices) > 0 {
			return true
		}
	}
	return false
}

// PriceAt returns the minor-unit price of the variant at the given index in
// the given currency. The second return value is false when the variant or a
// price in that currency does not exist.
func (p ProductView) PriceAt(index int, currencyCode string) (int64, bool) {
	v := p.VariantAt(index)
	if v == nil {
		return 0, false
	}
	return variantPrice(v, currencyCode)
}

// FormattedPriceAt returns the display price of the variant at the given
// index, or the empty string when no price exists in that currency.
func (p ProductView) FormattedPriceAt(index int, currencyCode string) string {
	amount, ok := p.PriceAt(index, currencyCode)
	if !ok {
		return ""
	}
	return FormatAmount(amount, currencyCode)
}

// PriceRange returns the lowest and highest variant prices in the given
// currency. ok is false when no variant has a price in that currency.
func (p ProductView) PriceRange(currencyCode string) (low, high int64, ok bool) {
	for i := range p.Variants {
		amount, found := variantPrice(&p.Variants[i], currencyCode)
		if !found {
			continue
		}
		if !ok {
			low, high, ok = amount, amount, true
			continue
		}
		if amount < low {
			low = amount
		}
		if amount > high {
			high = amount
		}
	}
	return low, high, ok
}

func variantPrice(v *medusa.Variant, currencyCode string) (int64, bool) {
	for _, price := range v.Prices {
		if strings.EqualFold(price.CurrencyCode, currencyCode) {
			return price.Amount, true
		}
	}
	return 0, false
}
