package domain

import (
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/slug"
)

// AllProductsID identifies the synthetic "All Products" category entry.
const AllProductsID = "all"

// Category is a normalized category record ready for navigation menus and
// select inputs.
type Category struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Handle           string  `json:"handle"`
	ParentCategoryID *string `json:"parent_category_id"`
	Href             string  `json:"href"`
	Label            string  `json:"label"`
	Value            string  `json:"value"`
}

// NormalizeCategories converts backend categories into navigation records and
// prepends the synthetic "All Products" entry. Categories missing a handle
// get one generated from their name.
func NormalizeCategories(raw []medusa.ProductCategory) []Category {
	out := make([]Category, 0, len(raw)+1)

	out = append(out, Category{
		ID:     AllProductsID,
		Name:   "All Products",
		Handle: "",
		Href:   "/",
		Label:  "All Products",
		Value:  AllProductsID,
	})

	for _, c := range raw {
		handle := c.Handle
		if handle == "" {
			handle = slug.Generate(c.Name)
		}
		out = append(out, Category{
			ID:               c.ID,
			Name:             c.Name,
			Handle:           handle,
			ParentCategoryID: c.ParentCategoryID,
			Href:             "/" + handle,
			Label:            c.Name,
			Value:            c.ID,
		})
	}

	return out
}
