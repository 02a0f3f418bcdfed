package medusa

import (
	"context"
	"net/http"
)

type cartResponse struct {
	Cart Cart `json:"cart"`
}

// CreateCart creates a new cart scoped to the given region.
func (c *Client) CreateCart(ctx context.Context, regionID string) (*Cart, error) {
	body := map[string]string{"region_id": regionID}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts", "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// RetrieveCart fetches a cart by ID.
func (c *Client) RetrieveCart(ctx context.Context, id string) (*Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodGet, "/store/carts/"+id, "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// UpdateCart patches cart-level fields (region, customer email).
func (c *Client) UpdateCart(ctx context.Context, id string, fields map[string]any) (*Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+id, "", nil, fields, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// AddLineItem adds a variant to the cart. The backend merges quantities when
// the variant is already present, so callers never create duplicate lines.
func (c *Client) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*Cart, error) {
	body := map[string]any{"variant_id": variantID, "quantity": quantity}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items", "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// UpdateLineItem sets the quantity of an existing line item.
func (c *Client) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*Cart, error) {
	body := map[string]any{"quantity": quantity}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items/"+lineItemID, "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

// DeleteLineItem removes a line item and returns the updated cart.
func (c *Client) DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+lineItemID, "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}
