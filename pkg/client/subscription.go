package client

import "context"

// GetSubscriptionStatus fetches a fresh read of the caller's subscription
// state. The subscription gate calls this on every protected entry and
// never caches the result.
func (c *Client) GetSubscriptionStatus(ctx context.Context) (*SubscriptionStatus, error) {
	var status SubscriptionStatus
	if err := c.doRequest(ctx, "GET", "/api/subscription/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListPlans returns the subscription plans shown on the upsell page
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.doRequest(ctx, "GET", "/api/subscription/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
