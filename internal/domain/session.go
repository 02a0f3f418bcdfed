package domain

import "github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"

// Session is the client-facing view of a storefront session. It is assembled
// from the backend customer record plus locally stored preference flags; the
// backend record stays authoritative.
type Session struct {
	ID        string           `json:"id"`
	LoggedIn  bool             `json:"logged_in"`
	DarkMode  bool             `json:"dark_mode"`
	Customer  *medusa.Customer `json:"customer,omitempty"`
	Region    *RegionOption    `json:"region,omitempty"`
	CartID    string           `json:"cart_id,omitempty"`
	ItemCount int              `json:"item_count"`
}
