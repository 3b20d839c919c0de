package enterprise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"course-nudge/internal/domain"
	"course-nudge/internal/ports"
)

// Client looks up enterprise-customer affiliation for a learner.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.EnterpriseLookup = (*Client)(nil)

// NewClient creates a reusable HTTP client for the enterprise API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type learnerDataDTO struct {
	Results []struct {
		EnterpriseCustomer struct {
			Slug                string `json:"slug"`
			EnableLearnerPortal bool   `json:"enable_learner_portal"`
		} `json:"enterprise_customer"`
	} `json:"results"`
}

// Learner returns the learner's enterprise customer, or nil when the user is
// not linked to one. The empty result is a normal outcome, not an error.
func (c *Client) Learner(ctx context.Context, user domain.User) (*domain.EnterpriseCustomer, error) {
	endpoint, err := url.Parse(c.baseURL + "/enterprise-learner/")
	if err != nil {
		return nil, fmt.Errorf("invalid enterprise url %s: %w", c.baseURL, err)
	}

	query := endpoint.Query()
	query.Set("username", user.Username)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch enterprise learner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enterprise service returned %s", resp.Status)
	}

	var payload learnerDataDTO
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode enterprise learner: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}

	customer := payload.Results[0].EnterpriseCustomer
	return &domain.EnterpriseCustomer{
		Slug:                customer.Slug,
		EnableLearnerPortal: customer.EnableLearnerPortal,
	}, nil
}
