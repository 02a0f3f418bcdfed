package medusa

import (
	"context"
	"net/http"
)

type customerResponse struct {
	Customer Customer `json:"customer"`
}

// LoginResult carries the bearer token and customer returned by the auth
// endpoint.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	Customer    Customer `json:"customer"`
}

// Login authenticates a customer with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResult
	if err := c.do(ctx, http.MethodPost, "/store/auth/token", "", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCustomerInput holds the fields for customer registration.
type CreateCustomerInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// CreateCustomer registers a new customer.
func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*Customer, error) {
	var resp customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/customers", "", nil, input, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// RetrieveCustomer fetches the customer bound to the given token.
func (c *Client) RetrieveCustomer(ctx context.Context, token string) (*Customer, error) {
	var resp customerResponse
	if err := c.do(ctx, http.MethodGet, "/store/customers/me", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// UpdateCustomerInput holds updatable profile fields. Nil fields are omitted.
type UpdateCustomerInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// UpdateCustomer patches the customer's profile.
func (c *Client) UpdateCustomer(ctx context.Context, token string, input UpdateCustomerInput) (*Customer, error) {
	var resp customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/customers/me", token, nil, input, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// ListAddresses returns the customer's address book.
func (c *Client) ListAddresses(ctx context.Context, token string) ([]Address, error) {
	cust, err := c.RetrieveCustomer(ctx, token)
	if err != nil {
		return nil, err
	}
	return cust.ShippingAddresses, nil
}

// CreateAddress adds an address to the customer's address book.
func (c *Client) CreateAddress(ctx context.Context, token string, addr Address) (*Customer, error) {
	body := map[string]Address{"address": addr}
	var resp customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/customers/me/addresses", token, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// UpdateAddress modifies an existing address.
func (c *Client) UpdateAddress(ctx context.Context, token, addressID string, addr Address) (*Customer, error) {
	var resp customerResponse
	if err := c.do(ctx, http.MethodPost, "/store/customers/me/addresses/"+addressID, token, nil, addr, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// DeleteAddress removes an address from the address book.
func (c *Client) DeleteAddress(ctx context.Context, token, addressID string) (*Customer, error) {
	var resp customerResponse
	if err := c.do(ctx, http.MethodDelete, "/store/customers/me/addresses/"+addressID, token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}
