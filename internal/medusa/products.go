package medusa

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListProductsParams filters and paginates a product listing.
type ListProductsParams struct {
	Query      string
	CategoryID string
	RegionID   string
	Handle     string
	Limit      int
	Offset     int
}

// ListProducts returns a page of products and the total match count.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.CategoryID != "" {
		q.Set("category_id[]", params.CategoryID)
	}
	if params.RegionID != "" {
		q.Set("region_id", params.RegionID)
	}
	if params.Handle != "" {
		q.Set("handle", params.Handle)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	var resp struct {
		Products []Product `json:"products"`
		Count    int       `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products", "", q, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Products, resp.Count, nil
}

// RetrieveProduct fetches a single product by its backend ID.
func (c *Client) RetrieveProduct(ctx context.Context, id string) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products/"+id, "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}
