package medusa

import "time"

// Region is a backend-defined pricing/shipping zone. A region may bundle many
// countries that share a currency and price list.
type Region struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currency_code"`
	Countries    []Country `json:"countries"`
}

// Country is one selectable country within a region.
type Country struct {
	ID          string `json:"id"`
	ISO2        string `json:"iso_2"`
	DisplayName string `json:"display_name"`
	RegionID    string `json:"region_id"`
}

// MoneyAmount is a price in a currency's minor units (cents).
type MoneyAmount struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Variant is a purchasable SKU of a product.
type Variant struct {
	ID        string        `json:"id"`
	ProductID string        `json:"product_id"`
	Title     string        `json:"title"`
	SKU       string        `json:"sku"`
	Prices    []MoneyAmount `json:"prices"`
}

// Product is a sellable product with its variants.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Variants    []Variant `json:"variants"`
	CategoryIDs []string  `json:"category_ids,omitempty"`
}

// ProductCategory is a backend product category.
type ProductCategory struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Handle           string  `json:"handle"`
	ParentCategoryID *string `json:"parent_category_id"`
}

// LineItem is one variant-quantity entry within a cart.
type LineItem struct {
	ID        string `json:"id"`
	CartID    string `json:"cart_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Cart is the server-side order-in-progress resource. Identity is the
// server-assigned ID; carts are scoped to a region.
type Cart struct {
	ID         string     `json:"id"`
	RegionID   string     `json:"region_id"`
	Email      string     `json:"email,omitempty"`
	CustomerID string     `json:"customer_id,omitempty"`
	Items      []LineItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ItemByVariant returns the line item carrying the given variant, or nil.
func (c *Cart) ItemByVariant(variantID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemCount returns the total quantity across all line items.
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Subtotal returns the cart subtotal in minor units.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// Address is a customer address book entry.
type Address struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province,omitempty"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone,omitempty"`
}

// Customer is the backend customer record. The backend copy is authoritative;
// anything cached locally is a display convenience.
type Customer struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Phone             string    `json:"phone,omitempty"`
	ShippingAddresses []Address `json:"shipping_addresses,omitempty"`
}
