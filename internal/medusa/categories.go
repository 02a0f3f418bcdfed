package medusa

import (
	"context"
	"net/http"
)

// ListCategories returns all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]ProductCategory, error) {
	var resp struct {
		ProductCategories []ProductCategory `json:"product_categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/product-categories", "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ProductCategories, nil
}
