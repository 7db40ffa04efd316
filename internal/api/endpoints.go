package api

import (
	"context"
	"net/http"
)

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var result AuthResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   creds,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var result AuthResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var result Profile
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/auth/me",
		Token:  token,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Medicines fetches the full medicine list in server order.
func (c *Client) Medicines(ctx context.Context, token string) ([]Medicine, error) {
	var result []Medicine
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/medicines",
		Token:  token,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateMedicine adds a new medicine record.
func (c *Client) CreateMedicine(ctx context.Context, token string, req CreateMedicineRequest) (*Medicine, error) {
	var result Medicine
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/medicines",
		Token:  token,
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DashboardAnalytics fetches the aggregate inventory snapshot.
func (c *Client) DashboardAnalytics(ctx context.Context, token string) (*AnalyticsSnapshot, error) {
	var result AnalyticsSnapshot
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/analytics/dashboard",
		Token:  token,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
