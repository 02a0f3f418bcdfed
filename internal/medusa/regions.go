package medusa

import (
	"context"
	"net/http"
)

// ListRegions returns all regions configured on the backend.
func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	var resp struct {
		Regions []Region `json:"regions"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/regions", "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regions, nil
}

// RetrieveRegion fetches a single region by its backend ID.
func (c *Client) RetrieveRegion(ctx context.Context, id string) (*Region, error) {
	var resp struct {
		Region Region `json:"region"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/regions/"+id, "", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Region, nil
}
